package viz

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolatlas/qolatlas/engine"
)

func barConfig() *engine.ChartConfig {
	return &engine.ChartConfig{
		ChartType: "bar",
		Title:     "Unemployment Rates by State",
		XAxis:     "State",
		YAxis:     "Rate (%)",
		Series: []engine.ChartSeries{{
			Name: "Rate",
			Data: []engine.ChartPoint{
				{Label: "NV", Value: 10},
				{Label: "TX", Value: 7},
				{Label: "CA", Value: 2},
			},
		}},
	}
}

func TestRenderBarWritesHTML(t *testing.T) {
	r := NewRenderer(t.TempDir(), zerolog.Nop())

	path, err := r.Render(barConfig())
	require.NoError(t, err)
	assert.Equal(t, "unemployment-rates-by-state.html", filepath.Base(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Contains(t, string(content), "Unemployment Rates by State")
}

func TestRenderScatterWithTrend(t *testing.T) {
	r := NewRenderer(t.TempDir(), zerolog.Nop())

	cfg := &engine.ChartConfig{
		ChartType: "scatter",
		Title:     "Correlation between Unemployment and Happiness",
		XAxis:     "Rate (%)",
		YAxis:     "Happiness",
		Series: []engine.ChartSeries{{
			Name: "States",
			Data: []engine.ChartPoint{
				{Label: "NV", X: 10, Value: 47},
				{Label: "TX", X: 7, Value: 52},
				{Label: "CA", X: 2, Value: 59},
			},
		}},
	}

	path, err := r.Render(cfg)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	// The fitted trend series and Pearson r subtitle appear in the output.
	assert.Contains(t, string(content), "Trend")
	assert.Contains(t, string(content), "Pearson r")
}

func TestRenderGroupedBar(t *testing.T) {
	r := NewRenderer(t.TempDir(), zerolog.Nop())

	cfg := &engine.ChartConfig{
		ChartType: "grouped_bar",
		Title:     "Comparative Quality of Life Scores by State",
		Series: []engine.ChartSeries{
			{Name: "Happiness", Data: []engine.ChartPoint{{Label: "TX", Value: 0.5}, {Label: "CA", Value: 1}}},
			{Name: "Safety", Data: []engine.ChartPoint{{Label: "TX", Value: 1}, {Label: "CA", Value: 0.1}}},
		},
	}

	path, err := r.Render(cfg)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Happiness")
	assert.Contains(t, string(content), "Safety")
}

func TestRenderRejectsBadConfigs(t *testing.T) {
	r := NewRenderer(t.TempDir(), zerolog.Nop())

	_, err := r.Render(nil)
	assert.Error(t, err)

	_, err = r.Render(&engine.ChartConfig{ChartType: "pie", Title: "nope",
		Series: []engine.ChartSeries{{Name: "x", Data: []engine.ChartPoint{{Value: 1}}}}})
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "unemployment-rates-by-state", slugify("Unemployment Rates by State"))
	assert.Equal(t, "a-b-c", slugify("  A/B & C!  "))
	assert.Equal(t, "chart", slugify("???"))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, &engine.TableData{
		Title:   "5 states",
		Headers: []string{"State", "Rate"},
		Rows:    [][]string{{"NV", "10"}, {"TX", "7"}},
	})

	out := buf.String()
	assert.Contains(t, out, "5 states")
	assert.Contains(t, out, "NV")
	assert.Contains(t, out, "RATE") // tablewriter upcases headers
}

func TestPrintTableEmptyIsSilent(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, nil)
	PrintTable(&buf, &engine.TableData{Title: "empty"})
	assert.Empty(t, buf.String())
}

func TestRampColor(t *testing.T) {
	assert.Equal(t, "#440154", rampColor(0, 10))
	assert.Equal(t, "#fde725", rampColor(10, 10))
	// Values past max clamp to the top of the ramp.
	assert.Equal(t, "#fde725", rampColor(20, 10))
	// Degenerate max falls back to the bottom anchor.
	assert.Equal(t, "#440154", rampColor(5, 0))
	// Missing values land on the bottom anchor instead of panicking.
	assert.Equal(t, "#440154", rampColor(math.NaN(), 10))
	assert.Equal(t, "#440154", rampColor(5, math.NaN()))
}
