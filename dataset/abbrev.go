package dataset

import "strings"

// StateAbbrevs maps postal abbreviations to full state names. The county
// dataset keys states by abbreviation; the state dataset uses full names.
// D.C. is included because the data carries it as a state.
var StateAbbrevs = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut",
	"DC": "Washington D.C.", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming",
}

// abbrevForName is the reverse of StateAbbrevs, keyed by lowercase name.
var abbrevForName = func() map[string]string {
	m := make(map[string]string, len(StateAbbrevs))
	for abbr, name := range StateAbbrevs {
		m[strings.ToLower(name)] = abbr
	}
	return m
}()

// AbbrevForName returns the postal abbreviation for a full state name,
// case-insensitively.
func AbbrevForName(name string) (string, bool) {
	abbr, ok := abbrevForName[strings.ToLower(strings.TrimSpace(name))]
	return abbr, ok
}
