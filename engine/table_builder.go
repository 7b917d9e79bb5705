package engine

// ============================================================================
// TABLE BUILDER — Produces TableData from Query + Groups
// ============================================================================

// BuildTable produces console-ready table data from aggregated groups.
// Single groupBy → two columns (label, value). Two groupBys → one column per
// sub-group key, aligned across primary groups.
func BuildTable(query Query, groups []Group) *TableData {
	table := &TableData{Title: query.Title}

	dimLabel := "Group"
	if len(query.GroupBy) > 0 {
		dimLabel = LabelForDimension(query.GroupBy[0])
	}

	if len(query.GroupBy) >= 2 && hasSubGroups(groups) {
		subKeySet := make(map[string]bool)
		var subKeys []string
		for _, g := range groups {
			for _, sg := range g.SubGroups {
				if !subKeySet[sg.Key] {
					subKeySet[sg.Key] = true
					subKeys = append(subKeys, sg.Key)
				}
			}
		}

		table.Headers = append([]string{dimLabel}, subKeys...)
		for _, g := range groups {
			lookup := make(map[string]float64, len(g.SubGroups))
			for _, sg := range g.SubGroups {
				lookup[sg.Key] = sg.Value
			}
			row := []string{g.Label}
			for _, key := range subKeys {
				row = append(row, FormatNum(RoundTo2(lookup[key])))
			}
			table.Rows = append(table.Rows, row)
		}
		return table
	}

	table.Headers = []string{dimLabel, LabelForAggregation(query.Aggregation)}
	for _, g := range groups {
		table.Rows = append(table.Rows, []string{g.Label, FormatNum(RoundTo2(g.Value))})
	}
	return table
}
