package quiz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/qolatlas/qolatlas/dataset"
	"github.com/qolatlas/qolatlas/engine"
	"github.com/qolatlas/qolatlas/viz"
)

// ============================================================================
// QUESTION HANDLERS
// ============================================================================
// Each handler turns a question into dataset lookups, an engine query, and a
// viz call. Handlers run only after the user answered yes.
// ============================================================================

func handleHighestUnemployment(r *Runner) error {
	return r.runGuess(QHighestUnemployment, "highest")
}

func handleLowestUnemployment(r *Runner) error {
	return r.runGuess(QLowestUnemployment, "lowest")
}

// runGuess plays the guessing game: the user names a state, then sees the
// actual extreme and a small leaderboard.
func (r *Runner) runGuess(id QuestionID, direction string) error {
	prompt := fmt.Sprintf("First guess which state has the %s unemployment rate. Write your guess and press Enter:", direction)
	guess, err := r.ask(string(id)+"-guess", prompt, r.validateState)
	if err != nil {
		return err
	}

	var target dataset.StateRecord
	if direction == "highest" {
		target, err = r.data.HighestUnemployment()
	} else {
		target, err = r.data.LowestUnemployment()
	}
	if err != nil {
		return err
	}

	rate := target.UnemploymentRate * 100
	if strings.EqualFold(guess, target.Name) {
		color.New(color.FgGreen).Fprintf(r.out,
			"You guessed correctly! %s has an unemployment rate of %.2f%%\n", target.Name, rate)
	} else {
		fmt.Fprintf(r.out,
			"Incorrect. The state with the %s unemployment rate is %s with a rate of %.2f%%\n",
			direction, target.Name, rate)
	}

	// Show the surrounding leaderboard for context.
	sortBy := "value_desc"
	if direction == "lowest" {
		sortBy = "value_asc"
	}
	result, err := engine.Execute(engine.Query{
		Aggregation: "avg",
		Measure:     "unemployment_pct",
		GroupBy:     []string{"state"},
		SortBy:      sortBy,
		Limit:       5,
		Visualize:   "table",
		Title:       fmt.Sprintf("5 states with the %s unemployment rate (%%)", direction),
	}, r.data.UnemploymentView())
	if err != nil {
		return err
	}
	viz.PrintTable(r.out, result.TableData)
	return nil
}

func handleUnemploymentChart(r *Runner) error {
	result, err := engine.Execute(engine.Query{
		Aggregation: "avg",
		Measure:     "unemployment_pct",
		GroupBy:     []string{"abbrev"},
		SortBy:      "value_desc",
		Visualize:   "bar",
		Title:       "Unemployment Rates by State",
	}, r.data.UnemploymentView())
	if err != nil {
		return err
	}
	result.ChartConfig.XAxis = "State"
	result.ChartConfig.YAxis = "Unemployment Rate (%)"
	return r.renderChart(result.ChartConfig)
}

func handleQOLComparison(r *Runner) error {
	answer, err := r.ask(string(QQOLComparison)+"-states",
		"Please enter the states you want to compare separated by commas (such as: 'California, Texas, New York'):",
		r.validateStateList)
	if err != nil {
		return err
	}
	names := strings.Split(answer, ", ")
	fmt.Fprintf(r.out, "Comparing states: %s\n", answer)

	cfg, err := comparisonChart(r.data, names)
	if err != nil {
		return err
	}
	return r.renderChart(cfg)
}

func handleHappiestStates(r *Runner) error {
	result, err := engine.Execute(engine.Query{
		Aggregation: "avg",
		Measure:     "happiness",
		GroupBy:     []string{"state"},
		SortBy:      "value_desc",
		Visualize:   "bar",
		Title:       "Happiest States",
	}, r.data.StateView())
	if err != nil {
		return err
	}
	result.ChartConfig.XAxis = "State"
	result.ChartConfig.YAxis = "Happiness Index"
	return r.renderChart(result.ChartConfig)
}

func handleHappinessCorrelation(r *Runner) error {
	points := make([]engine.ChartPoint, 0, r.data.Len())
	for _, s := range r.data.States() {
		if math.IsNaN(s.UnemploymentRate) {
			continue
		}
		points = append(points, engine.ChartPoint{
			Label: s.Name,
			X:     engine.RoundTo2(s.UnemploymentRate * 100),
			Value: s.HappinessIndex,
		})
	}
	if len(points) < 2 {
		return fmt.Errorf("not enough states with unemployment data for a correlation chart")
	}

	cfg := &engine.ChartConfig{
		ChartType:  "scatter",
		Title:      "Correlation between Unemployment and Happiness",
		XAxis:      "Weighted Unemployment Rate (%)",
		YAxis:      "Happiness Index",
		ShowLegend: false,
		Series:     []engine.ChartSeries{{Name: "States", Data: points}},
	}
	return r.renderChart(cfg)
}

// ============================================================================
// CHART HELPERS
// ============================================================================

func (r *Runner) renderChart(cfg *engine.ChartConfig) error {
	path, err := r.charts.Render(cfg)
	if err != nil {
		return err
	}
	color.New(color.FgCyan).Fprintf(r.out, "Chart written to %s\n", path)
	return nil
}

// comparisonChart builds a grouped bar chart comparing the selected states
// across every metric. Each metric is min-max normalized over ALL states, so
// the bars are comparable across wildly different scales.
func comparisonChart(ds *dataset.Dataset, names []string) (*engine.ChartConfig, error) {
	all := ds.States()

	type bounds struct{ min, max float64 }
	ranges := make(map[dataset.Metric]bounds, len(dataset.Metrics))
	for _, m := range dataset.Metrics {
		b := bounds{min: math.Inf(1), max: math.Inf(-1)}
		for _, s := range all {
			v := s.Value(m)
			if math.IsNaN(v) {
				continue
			}
			if v < b.min {
				b.min = v
			}
			if v > b.max {
				b.max = v
			}
		}
		ranges[m] = b
	}

	normalize := func(m dataset.Metric, v float64) float64 {
		b := ranges[m]
		if math.IsNaN(v) || b.max <= b.min {
			return 0
		}
		return engine.RoundTo2((v - b.min) / (b.max - b.min))
	}

	selected := make([]dataset.StateRecord, 0, len(names))
	for _, name := range names {
		rec, err := ds.Get(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, rec)
	}

	// Bar groups run best to worst by composite score.
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].QOLTotal != selected[j].QOLTotal {
			return selected[i].QOLTotal > selected[j].QOLTotal
		}
		return selected[i].Name < selected[j].Name
	})

	series := make([]engine.ChartSeries, 0, len(dataset.Metrics))
	for _, m := range dataset.Metrics {
		points := make([]engine.ChartPoint, 0, len(selected))
		for _, s := range selected {
			points = append(points, engine.ChartPoint{
				Label: s.Name,
				Value: normalize(m, s.Value(m)),
			})
		}
		series = append(series, engine.ChartSeries{Name: m.Label(), Data: points})
	}

	return &engine.ChartConfig{
		ChartType:  "grouped_bar",
		Title:      "Comparative Quality of Life Scores by State",
		Subtitle:   "Min-max normalized across all states",
		XAxis:      "State",
		YAxis:      "Normalized score",
		ShowLegend: true,
		Series:     series,
	}, nil
}
