package engine

// ============================================================================
// ENGINE TYPES — Generic Tabular Aggregation
// ============================================================================
// The engine knows nothing about states or unemployment. It sees rows with
// string dimensions (state, county) and numeric measures (population,
// unemployment, scores), and turns a Query into render-ready output.
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// QUERY — Contract between question handlers and the engine
// ============================================================================

// Query defines what the engine should compute. The quiz package builds one
// per question; the engine executes it against a RecordView.
type Query struct {
	Filters     Filters  `json:"filters"`     // which rows to include
	Aggregation string   `json:"aggregation"` // "sum", "count", "avg", "max", "min", "wavg"
	Measure     string   `json:"measure"`     // measure to aggregate
	Weight      string   `json:"weight"`      // weight measure for "wavg" (e.g. population)
	GroupBy     []string `json:"groupBy"`     // dimension keys: ["state"], ["state", "metric"]
	SortBy      string   `json:"sortBy"`      // "value_desc", "value_asc", "label_asc", "label_desc"
	Limit       int      `json:"limit"`       // 0 = all
	Visualize   string   `json:"visualize"`   // "bar", "grouped_bar", "scatter", "table"
	Title       string   `json:"title"`       // chart/table title
}

// Filters define which rows to include.
// Keys are dimension names, values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	if f.Dimensions == nil {
		return true
	}
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output. Exactly one of ChartConfig or
// TableData is populated, based on the query's Visualize field.
type Result struct {
	Title       string       `json:"title"`
	Groups      []Group      `json:"groups,omitempty"`
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`
}

// Group represents a grouped/aggregated result.
// Builders convert these into ChartConfig or TableData.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	SubGroups []Group    `json:"subGroups,omitempty"`
	View      RecordView `json:"-"` // rows in this group (zero-copy)
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart. The viz package turns one of
// these into an HTML file; the engine never renders anything itself.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // "bar", "grouped_bar", "scatter"
	Title      string        `json:"title"`
	Subtitle   string        `json:"subtitle,omitempty"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point. X is only set for scatter
// series; bar series carry the category in Label.
type ChartPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x,omitempty"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a console table.
type TableData struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}
