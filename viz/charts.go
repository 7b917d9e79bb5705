package viz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog"

	"github.com/qolatlas/qolatlas/engine"
)

// ============================================================================
// CHART RENDERER — engine.ChartConfig → self-contained HTML files
// ============================================================================
// The engine produces render-ready configs; this package is the only place
// that touches a charting library. Rendering is side-effect only — nothing
// here mutates the dataset or the config.
// ============================================================================

// Renderer writes charts into a target directory.
type Renderer struct {
	dir string
	log zerolog.Logger
}

// NewRenderer creates a Renderer. The directory is created on first render.
func NewRenderer(dir string, log zerolog.Logger) *Renderer {
	return &Renderer{dir: dir, log: log}
}

// Render dispatches on the config's chart type and returns the written path.
func (r *Renderer) Render(cfg *engine.ChartConfig) (string, error) {
	if cfg == nil || len(cfg.Series) == 0 {
		return "", fmt.Errorf("empty chart config")
	}

	switch cfg.ChartType {
	case "bar":
		return r.RenderBar(cfg)
	case "grouped_bar":
		return r.RenderGroupedBar(cfg)
	case "scatter":
		return r.RenderScatter(cfg)
	default:
		return "", fmt.Errorf("unsupported chart type %q", cfg.ChartType)
	}
}

// RenderBar renders a single-series bar chart. Bars are colored on a gradient
// scaled to the series maximum, so the tallest bars read hottest.
func (r *Renderer) RenderBar(cfg *engine.ChartConfig) (string, error) {
	if len(cfg.Series) != 1 {
		return "", fmt.Errorf("bar chart expects one series, got %d", len(cfg.Series))
	}
	series := cfg.Series[0]

	maxVal := 0.0
	for _, p := range series.Data {
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}

	labels := make([]string, 0, len(series.Data))
	bars := make([]opts.BarData, 0, len(series.Data))
	for _, p := range series.Data {
		labels = append(labels, p.Label)
		bars = append(bars, opts.BarData{
			Value:     p.Value,
			ItemStyle: &opts.ItemStyle{Color: rampColor(p.Value, maxVal)},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: cfg.Title, Subtitle: cfg.Subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: cfg.XAxis, AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: cfg.YAxis}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(cfg.ShowLegend)}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: cfg.Title, Width: "1200px", Height: "640px"}),
	)
	bar.SetXAxis(labels).AddSeries(series.Name, bars)

	return r.write(bar, cfg.Title)
}

// RenderGroupedBar renders a multi-series grouped bar chart (one bar group
// per label, one series per metric).
func (r *Renderer) RenderGroupedBar(cfg *engine.ChartConfig) (string, error) {
	if len(cfg.Series) == 0 {
		return "", fmt.Errorf("grouped bar chart has no series")
	}

	labels := make([]string, 0, len(cfg.Series[0].Data))
	for _, p := range cfg.Series[0].Data {
		labels = append(labels, p.Label)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: cfg.Title, Subtitle: cfg.Subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: cfg.XAxis}),
		charts.WithYAxisOpts(opts.YAxis{Name: cfg.YAxis}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: cfg.Title, Width: "1200px", Height: "640px"}),
	)
	bar.SetXAxis(labels)

	for _, s := range cfg.Series {
		bars := make([]opts.BarData, 0, len(s.Data))
		for _, p := range s.Data {
			bars = append(bars, opts.BarData{Value: p.Value})
		}
		if s.Color != "" {
			bar.AddSeries(s.Name, bars, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		} else {
			bar.AddSeries(s.Name, bars)
		}
	}

	return r.write(bar, cfg.Title)
}

// RenderScatter renders an x/y scatter with a fitted least-squares trend
// line. Pearson r lands in the subtitle.
func (r *Renderer) RenderScatter(cfg *engine.ChartConfig) (string, error) {
	if len(cfg.Series) != 1 {
		return "", fmt.Errorf("scatter chart expects one series, got %d", len(cfg.Series))
	}
	series := cfg.Series[0]

	xs := make([]float64, 0, len(series.Data))
	ys := make([]float64, 0, len(series.Data))
	points := make([]opts.ScatterData, 0, len(series.Data))
	for _, p := range series.Data {
		xs = append(xs, p.X)
		ys = append(ys, p.Value)
		points = append(points, opts.ScatterData{
			Name:       p.Label,
			Value:      []interface{}{p.X, p.Value},
			SymbolSize: 10,
		})
	}

	subtitle := cfg.Subtitle
	trend, ok := FitTrend(xs, ys)
	if ok && subtitle == "" {
		subtitle = fmt.Sprintf("Pearson r = %.3f", trend.R)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: cfg.Title, Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: cfg.XAxis, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: cfg.YAxis, Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: cfg.Title, Width: "1000px", Height: "640px"}),
	)
	scatter.AddSeries(series.Name, points)

	if ok {
		xMin, xMax := xs[0], xs[0]
		for _, x := range xs[1:] {
			if x < xMin {
				xMin = x
			}
			if x > xMax {
				xMax = x
			}
		}
		line := charts.NewLine()
		line.AddSeries("Trend", []opts.LineData{
			{Value: []interface{}{xMin, trend.At(xMin)}},
			{Value: []interface{}{xMax, trend.At(xMax)}},
		}, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		scatter.Overlap(line)
	}

	return r.write(scatter, cfg.Title)
}

// ============================================================================
// OUTPUT
// ============================================================================

type renderable interface {
	Render(w io.Writer) error
}

func (r *Renderer) write(chart renderable, title string) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart directory: %w", err)
	}

	path := filepath.Join(r.dir, slugify(title)+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}

	r.log.Info().Str("path", path).Str("title", title).Msg("chart written")
	return path, nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "chart"
	}
	return s
}
