package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/qolatlas/qolatlas/engine"
)

// ============================================================================
// LOADER — CSV → Dataset
// ============================================================================
// Two inputs: the state quality-of-life file (one row per state) and the
// county file (one row per county, keyed by state abbreviation). The loader
// validates headers, coerces the messy value formats the source data uses
// (percents, fractions, dollar amounts, -1 for missing), fills missing county
// unemployment with the column mean, and computes the population-weighted
// unemployment rate per state through the engine.
// ============================================================================

// CountyRow is one county-level observation. Missing metric values are NaN
// after coercion; the weighted aggregators skip them.
type CountyRow struct {
	County       string
	State        string // postal abbreviation
	Population   float64
	Unemployment float64
	CostOfLiving float64
	MedianIncome float64
	WaterQuality float64
	ParkCoverage float64
	CrimeRate    float64
}

// countyAdapter binds county rows into the engine. Declared once.
var countyAdapter = engine.NewDomainAdapter[CountyRow]().
	Dimension("county", func(c CountyRow) string { return c.County }).
	Dimension("state", func(c CountyRow) string { return c.State }).
	Measure("population", func(c CountyRow) float64 { return c.Population }).
	Measure("unemployment", func(c CountyRow) float64 { return c.Unemployment }).
	Measure("cost_of_living", func(c CountyRow) float64 { return c.CostOfLiving }).
	Measure("median_income", func(c CountyRow) float64 { return c.MedianIncome }).
	Measure("water_quality", func(c CountyRow) float64 { return c.WaterQuality }).
	Measure("park_coverage", func(c CountyRow) float64 { return c.ParkCoverage }).
	Measure("crime_rate", func(c CountyRow) float64 { return c.CrimeRate })

// Loader reads the two CSV files into a Dataset.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a Loader that reports progress to the given logger.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log}
}

// Load reads both files and returns an immutable Dataset. Any missing file,
// missing column, or non-numeric metric value fails with ErrDataLoad.
func (l *Loader) Load(statePath, countyPath string) (*Dataset, error) {
	counties, err := l.loadCounties(countyPath)
	if err != nil {
		return nil, err
	}

	states, err := l.loadStates(statePath)
	if err != nil {
		return nil, err
	}

	countyView := countyAdapter.Bind(counties)

	// Population-weighted unemployment per state, computed once at load.
	rates, err := weightedUnemploymentByState(countyView)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	for i := range states {
		rate, ok := rates[states[i].Abbrev]
		if !ok {
			rate = math.NaN()
		}
		states[i].UnemploymentRate = rate
	}

	ds := newDataset(states, countyView)
	l.log.Info().
		Int("states", len(states)).
		Int("counties", len(counties)).
		Str("state_file", statePath).
		Str("county_file", countyPath).
		Msg("dataset loaded")
	return ds, nil
}

func (l *Loader) loadStates(path string) ([]StateRecord, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	idx, err := indexColumns(header, requiredStateColumns)
	if err != nil {
		return nil, fmt.Errorf("state file %s: %w", path, err)
	}

	states := make([]StateRecord, 0, len(rows))
	for n, row := range rows {
		name := strings.TrimSpace(row[idx[colStateName]])
		if name == "" {
			continue
		}
		abbr, ok := AbbrevForName(name)
		if !ok {
			l.log.Warn().Str("state", name).Msg("unrecognized state name, row skipped")
			continue
		}

		rec := StateRecord{Name: name, Abbrev: abbr}
		for _, f := range []struct {
			col  string
			dest *float64
		}{
			{colHappiness, &rec.HappinessIndex},
			{colQOLTotal, &rec.QOLTotal},
			{colQOLEconomy, &rec.EconomicScore},
			{colQOLHealth, &rec.HealthScore},
			{colQOLSafety, &rec.SafetyScore},
		} {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[idx[f.col]]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: state file row %d: column %q is not numeric: %q",
					ErrDataLoad, n+2, f.col, row[idx[f.col]])
			}
			*f.dest = v
		}
		states = append(states, rec)
	}

	if len(states) == 0 {
		return nil, fmt.Errorf("%w: state file %s contains no usable rows", ErrDataLoad, path)
	}
	return states, nil
}

func (l *Loader) loadCounties(path string) ([]CountyRow, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	idx, err := indexColumns(header, requiredCountyColumns)
	if err != nil {
		return nil, fmt.Errorf("county file %s: %w", path, err)
	}

	counties := make([]CountyRow, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		pop, ok := parsePopulation(row[idx[colPopulation]])
		if !ok {
			// Rows without a usable population can't contribute to any
			// weighted average.
			dropped++
			continue
		}

		counties = append(counties, CountyRow{
			County:       strings.TrimSpace(row[idx[colCounty]]),
			State:        strings.ToUpper(strings.TrimSpace(row[idx[colCountyState]])),
			Population:   pop,
			Unemployment: coerceMetric(row[idx[colUnemployment]]),
			CostOfLiving: coerceDollar(row[idx[colCostOfLiving]]),
			MedianIncome: coerceDollar(row[idx[colMedianIncome]]),
			WaterQuality: coerceMetric(row[idx[colWaterQuality]]),
			ParkCoverage: coerceMetric(row[idx[colParkCoverage]]),
			CrimeRate:    coerceMetric(row[idx[colCrimeRate]]),
		})
	}

	if len(counties) == 0 {
		return nil, fmt.Errorf("%w: county file %s contains no usable rows", ErrDataLoad, path)
	}
	if dropped > 0 {
		l.log.Warn().Int("rows", dropped).Msg("county rows dropped for unparseable population")
	}

	fillMissingUnemployment(counties)
	return counties, nil
}

// readCSV reads a whole CSV file, returning data rows and the header row.
func readCSV(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrDataLoad, path, err)
	}
	if len(all) < 2 {
		return nil, nil, fmt.Errorf("%w: %s has no data rows", ErrDataLoad, path)
	}
	return all[1:], all[0], nil
}

// ============================================================================
// VALUE COERCION
// ============================================================================
// The source data mixes formats: "4.2%", "3/4", "$55,000", "1,234", and -1
// as a missing marker. Everything coerces to float64 or NaN.

// coerceMetric parses a metric cell. Percents become fractions, "a/b" is
// evaluated, -1 and unparseable values become NaN.
func coerceMetric(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}

	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || v == -1 {
			return math.NaN()
		}
		return v / 100
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return math.NaN()
		}
		return n / d
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v == -1 {
		return math.NaN()
	}
	return v
}

// coerceDollar parses a dollar cell: "$55,000" → 55000.
func coerceDollar(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == -1 {
		return math.NaN()
	}
	return v
}

// parsePopulation parses a population cell with thousands separators.
func parsePopulation(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// fillMissingUnemployment replaces NaN unemployment values with the mean of
// the known ones, so a few gap counties don't knock a state out of the
// weighted average.
func fillMissingUnemployment(counties []CountyRow) {
	var sum float64
	var n int
	for _, c := range counties {
		if !math.IsNaN(c.Unemployment) {
			sum += c.Unemployment
			n++
		}
	}
	if n == 0 {
		return
	}
	mean := sum / float64(n)
	for i := range counties {
		if math.IsNaN(counties[i].Unemployment) {
			counties[i].Unemployment = mean
		}
	}
}

// weightedUnemploymentByState runs the engine's wavg pipeline over the county
// view, producing one rate per state abbreviation.
func weightedUnemploymentByState(counties engine.RecordView) (map[string]float64, error) {
	result, err := engine.Execute(engine.Query{
		Aggregation: "wavg",
		Measure:     "unemployment",
		Weight:      "population",
		GroupBy:     []string{"state"},
		Visualize:   "table",
		Title:       "Weighted unemployment by state",
	}, counties)
	if err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(result.Groups))
	for _, g := range result.Groups {
		rates[g.Key] = g.Value
	}
	return rates, nil
}
