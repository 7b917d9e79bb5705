package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/qolatlas/qolatlas/engine"
)

// ============================================================================
// DATASET — Immutable state-level store
// ============================================================================
// Loaded once at startup, read-only for the process lifetime. State records
// carry the five quality-of-life metrics; the county view stays attached for
// population-weighted category averages.
// ============================================================================

// Metric identifies one of the per-state quality-of-life metrics.
type Metric string

const (
	MetricUnemployment Metric = "unemployment"
	MetricHappiness    Metric = "happiness"
	MetricEconomic     Metric = "economic"
	MetricHealth       Metric = "health"
	MetricSafety       Metric = "safety"
)

// Metrics lists all valid metrics in display order.
var Metrics = []Metric{
	MetricUnemployment, MetricHappiness, MetricEconomic, MetricHealth, MetricSafety,
}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Metrics {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Label returns a human-readable name for chart axes and tables.
func (m Metric) Label() string {
	switch m {
	case MetricUnemployment:
		return "Unemployment Rate"
	case MetricHappiness:
		return "Happiness Index"
	case MetricEconomic:
		return "Economic Score"
	case MetricHealth:
		return "Health Score"
	case MetricSafety:
		return "Safety Score"
	default:
		return string(m)
	}
}

// StateRecord is one entry per U.S. state. Immutable once loaded.
// UnemploymentRate is the population-weighted average over the state's
// counties, as a fraction (0.042 = 4.2%); the scores come straight from the
// state quality-of-life file. QOLTotal is the composite score used to order
// the comparison chart.
type StateRecord struct {
	Name             string
	Abbrev           string
	UnemploymentRate float64
	HappinessIndex   float64
	EconomicScore    float64
	HealthScore      float64
	SafetyScore      float64
	QOLTotal         float64
}

// Value returns the record's value for a metric.
func (r StateRecord) Value(m Metric) float64 {
	switch m {
	case MetricUnemployment:
		return r.UnemploymentRate
	case MetricHappiness:
		return r.HappinessIndex
	case MetricEconomic:
		return r.EconomicScore
	case MetricHealth:
		return r.HealthScore
	case MetricSafety:
		return r.SafetyScore
	default:
		return math.NaN()
	}
}

// stateAdapter binds state records into the engine for chart queries.
// Unemployment is exposed as a percentage so chart axes read naturally.
var stateAdapter = engine.NewDomainAdapter[StateRecord]().
	Dimension("state", func(s StateRecord) string { return s.Name }).
	Dimension("abbrev", func(s StateRecord) string { return s.Abbrev }).
	Measure("unemployment_pct", func(s StateRecord) float64 { return s.UnemploymentRate * 100 }).
	Measure("happiness", func(s StateRecord) float64 { return s.HappinessIndex }).
	Measure("economic", func(s StateRecord) float64 { return s.EconomicScore }).
	Measure("health", func(s StateRecord) float64 { return s.HealthScore }).
	Measure("safety", func(s StateRecord) float64 { return s.SafetyScore })

// Dataset is an ordered, read-only collection of StateRecord plus the county
// view backing the weighted aggregates.
type Dataset struct {
	states   []StateRecord
	byName   map[string]int // lowercase full name → index
	counties engine.RecordView
}

func newDataset(states []StateRecord, counties engine.RecordView) *Dataset {
	byName := make(map[string]int, len(states))
	for i, s := range states {
		byName[strings.ToLower(s.Name)] = i
	}
	return &Dataset{states: states, byName: byName, counties: counties}
}

// Len returns the number of states.
func (d *Dataset) Len() int { return len(d.states) }

// States returns a copy of all records in load order.
func (d *Dataset) States() []StateRecord {
	out := make([]StateRecord, len(d.states))
	copy(out, d.states)
	return out
}

// StateNames returns all full state names in load order.
func (d *Dataset) StateNames() []string {
	names := make([]string, len(d.states))
	for i, s := range d.states {
		names[i] = s.Name
	}
	return names
}

// CountyView exposes the county rows for engine queries.
func (d *Dataset) CountyView() engine.RecordView { return d.counties }

// StateView exposes one row per state for engine chart queries.
func (d *Dataset) StateView() engine.RecordView { return stateAdapter.Bind(d.states) }

// UnemploymentView exposes one row per state with a known unemployment rate.
// A state that loaded without county rows carries NaN and is excluded, so
// unemployment queries never see a missing value.
func (d *Dataset) UnemploymentView() engine.RecordView {
	known := make([]StateRecord, 0, len(d.states))
	for _, s := range d.states {
		if !math.IsNaN(s.UnemploymentRate) {
			known = append(known, s)
		}
	}
	return stateAdapter.Bind(known)
}

// Get returns the record for a full state name, case-insensitively.
func (d *Dataset) Get(name string) (StateRecord, error) {
	i, ok := d.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return StateRecord{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return d.states[i], nil
}

// TopN returns the n states with the highest or lowest value of a metric.
// Ties break by state name ascending. States with no value for the metric
// (NaN) are excluded.
func (d *Dataset) TopN(metric Metric, n int, direction string) ([]StateRecord, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("top-n count must be positive, got %d", n)
	}

	var descending bool
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "highest":
		descending = true
	case "lowest":
		descending = false
	default:
		return nil, fmt.Errorf("direction must be \"highest\" or \"lowest\", got %q", direction)
	}

	ranked := make([]StateRecord, 0, len(d.states))
	for _, s := range d.states {
		if !math.IsNaN(s.Value(metric)) {
			ranked = append(ranked, s)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		vi, vj := ranked[i].Value(metric), ranked[j].Value(metric)
		if vi != vj {
			if descending {
				return vi > vj
			}
			return vi < vj
		}
		return ranked[i].Name < ranked[j].Name
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], nil
}

// HighestUnemployment returns the state with the highest weighted
// unemployment rate.
func (d *Dataset) HighestUnemployment() (StateRecord, error) {
	top, err := d.TopN(MetricUnemployment, 1, "highest")
	if err != nil {
		return StateRecord{}, err
	}
	if len(top) == 0 {
		return StateRecord{}, fmt.Errorf("%w: no unemployment data", ErrNotFound)
	}
	return top[0], nil
}

// LowestUnemployment returns the state with the lowest weighted
// unemployment rate.
func (d *Dataset) LowestUnemployment() (StateRecord, error) {
	top, err := d.TopN(MetricUnemployment, 1, "lowest")
	if err != nil {
		return StateRecord{}, err
	}
	if len(top) == 0 {
		return StateRecord{}, fmt.Errorf("%w: no unemployment data", ErrNotFound)
	}
	return top[0], nil
}

// ============================================================================
// CATEGORY AVERAGES — population-weighted county metrics per state
// ============================================================================

// Category groups the county-level measures the way the source data does.
type Category string

const (
	CategoryEconomy Category = "economy"
	CategoryHealth  Category = "health"
	CategorySafety  Category = "safety"
)

// categoryMeasures maps a category to the county measures it aggregates.
var categoryMeasures = map[Category][]string{
	CategoryEconomy: {"cost_of_living", "median_income"},
	CategoryHealth:  {"water_quality", "park_coverage"},
	CategorySafety:  {"crime_rate"},
}

// CategoryAverages computes the population-weighted average of each measure
// in a category, per state. The result maps state abbreviation → measure key
// → weighted average.
func (d *Dataset) CategoryAverages(cat Category) (map[string]map[string]float64, error) {
	measures, ok := categoryMeasures[cat]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", cat)
	}

	out := make(map[string]map[string]float64)
	for _, measure := range measures {
		result, err := engine.Execute(engine.Query{
			Aggregation: "wavg",
			Measure:     measure,
			Weight:      "population",
			GroupBy:     []string{"state"},
			Visualize:   "table",
			Title:       fmt.Sprintf("Weighted %s by state", measure),
		}, d.counties)
		if err != nil {
			return nil, err
		}
		for _, g := range result.Groups {
			if out[g.Key] == nil {
				out[g.Key] = make(map[string]float64, len(measures))
			}
			out[g.Key][measure] = g.Value
		}
	}
	return out, nil
}
