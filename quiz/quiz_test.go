package quiz

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolatlas/qolatlas/dataset"
	"github.com/qolatlas/qolatlas/viz"
)

const stateCSV = `state,HappiestStatesTotalHappinessScore,QualityOfLifeTotalScore,QualityOfLifeEconomy,QualityOfLifeEducationAndHealth,QualityOfLifeSafety
Texas,52.3,60.1,55.0,48.2,44.7
California,58.9,62.5,50.1,57.3,40.2
Nevada,47.1,51.0,46.5,42.0,39.8
`

const countyCSV = `County,LSTATE,2022 Population,Unemployment,Cost of Living,2022 Median Income,WaterQualityVPV,%CvgCityPark,2016 Crime Rate
Travis,TX,100,4%,"$42,000","$68,000",0.8,12%,0.02
Harris,TX,300,8%,"$39,500","$61,000",0.7,9%,0.03
Alameda,CA,200,2%,"$55,250","$92,000",0.9,15%,0.01
Clark,NV,50,10%,"$44,000","$58,500",0.6,7%,0.04
`

const fullPresets = `answers:
  highest-unemployment: "y"
  highest-unemployment-guess: Nevada
  lowest-unemployment: "y"
  lowest-unemployment-guess: Texas
  unemployment-chart: "y"
  qol-comparison: "y"
  qol-comparison-states: Texas, California
  happiest-states: "y"
  happiness-correlation: "y"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	dir := t.TempDir()
	ds, err := dataset.NewLoader(zerolog.Nop()).Load(
		writeFile(t, dir, "states.csv", stateCSV),
		writeFile(t, dir, "counties.csv", countyCSV),
	)
	require.NoError(t, err)
	return ds
}

// testRunner wires a Runner with a scripted stdin and captured stdout.
func testRunner(t *testing.T, answers *Answers, input string) (*Runner, *bytes.Buffer, string) {
	t.Helper()
	chartDir := t.TempDir()
	out := &bytes.Buffer{}
	r := NewRunner(
		testDataset(t),
		viz.NewRenderer(chartDir, zerolog.Nop()),
		answers,
		strings.NewReader(input),
		out,
		zerolog.Nop(),
	)
	return r, out, chartDir
}

func TestRunWithFullPresetsNeverPrompts(t *testing.T) {
	answers, err := LoadAnswers(writeFile(t, t.TempDir(), "presets.yaml", fullPresets))
	require.NoError(t, err)

	// Empty stdin: any attempt to prompt would fail the run.
	r, out, chartDir := testRunner(t, answers, "")
	require.NoError(t, r.Run())

	text := out.String()
	assert.Contains(t, text, "You guessed correctly! Nevada")
	assert.Contains(t, text, "Incorrect. The state with the lowest unemployment rate is California")
	assert.Contains(t, text, "Comparing states: Texas, California")
	assert.Contains(t, text, "All questions processed")

	entries, err := os.ReadDir(chartDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "four chart questions → four chart files")
}

func TestRunDecliningEverySkipsAllHandlers(t *testing.T) {
	r, out, chartDir := testRunner(t, NoAnswers(), strings.Repeat("n\n", len(questions)))
	require.NoError(t, r.Run())

	assert.Contains(t, out.String(), "All questions processed")

	entries, err := os.ReadDir(chartDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunInteractiveGuess(t *testing.T) {
	// Say yes to the first question, guess wrong, decline everything else.
	input := "y\nTexas\n" + strings.Repeat("n\n", len(questions)-1)
	r, out, _ := testRunner(t, NoAnswers(), input)
	require.NoError(t, r.Run())

	assert.Contains(t, out.String(),
		"Incorrect. The state with the highest unemployment rate is Nevada with a rate of 10.00%")
}

func TestAskRepromptsOnInvalidInput(t *testing.T) {
	r, out, _ := testRunner(t, NoAnswers(), "maybe\nYES\n")

	yes, err := r.askYesNo("q", "Continue?")
	require.NoError(t, err)
	assert.True(t, yes)
	assert.Contains(t, out.String(), "please enter 'y' for yes or 'n' for no")
}

func TestAskFailsAfterExhaustedRetries(t *testing.T) {
	r, _, _ := testRunner(t, NoAnswers(), "bad\nworse\nstill bad\n")

	_, err := r.askYesNo("q", "Continue?")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInput)
}

func TestInvalidPresetFailsImmediately(t *testing.T) {
	presets := "answers:\n  highest-unemployment: perhaps\n"
	answers, err := LoadAnswers(writeFile(t, t.TempDir(), "presets.yaml", presets))
	require.NoError(t, err)

	// Input would be a valid fallback, but presets are never retried.
	r, _, _ := testRunner(t, answers, "y\n")
	err = r.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInput)
}

func TestValidateStateRejectsAbbreviations(t *testing.T) {
	r, _, _ := testRunner(t, NoAnswers(), "")

	_, err := r.validateState("TX")
	assert.Error(t, err)

	name, err := r.validateState("texas")
	require.NoError(t, err)
	assert.Equal(t, "Texas", name)
}

func TestValidateStateList(t *testing.T) {
	r, _, _ := testRunner(t, NoAnswers(), "")

	got, err := r.validateStateList("california,  nevada ")
	require.NoError(t, err)
	assert.Equal(t, "California, Nevada", got)

	_, err = r.validateStateList("California, Mordor")
	assert.Error(t, err)

	_, err = r.validateStateList(" , ")
	assert.Error(t, err)
}

func TestUnemploymentChartSkipsStatesWithoutCounties(t *testing.T) {
	// Montana appears in the state file but has no county rows, so it loads
	// with an unknown unemployment rate.
	dir := t.TempDir()
	ds, err := dataset.NewLoader(zerolog.Nop()).Load(
		writeFile(t, dir, "states.csv", stateCSV+"Montana,49.0,55.0,50.0,47.0,46.0\n"),
		writeFile(t, dir, "counties.csv", countyCSV),
	)
	require.NoError(t, err)

	presets := "answers:\n  unemployment-chart: \"y\"\n"
	answers, err := LoadAnswers(writeFile(t, dir, "presets.yaml", presets))
	require.NoError(t, err)

	chartDir := t.TempDir()
	out := &bytes.Buffer{}
	r := NewRunner(ds, viz.NewRenderer(chartDir, zerolog.Nop()), answers,
		strings.NewReader(strings.Repeat("n\n", len(questions)-1)), out, zerolog.Nop())
	require.NoError(t, r.Run())

	html, err := os.ReadFile(filepath.Join(chartDir, "unemployment-rates-by-state.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), `"NV"`)
	assert.NotContains(t, string(html), `"MT"`)
}

func TestComparisonChartOrdersByCompositeScore(t *testing.T) {
	// California's composite score beats Texas's, so it leads regardless of
	// the order the user typed.
	cfg, err := comparisonChart(testDataset(t), []string{"Texas", "California"})
	require.NoError(t, err)

	require.NotEmpty(t, cfg.Series)
	labels := make([]string, 0, len(cfg.Series[0].Data))
	for _, p := range cfg.Series[0].Data {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"California", "Texas"}, labels)
}

func TestLoadAnswersMissingFile(t *testing.T) {
	_, err := LoadAnswers(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrDataLoad)
}

func TestAnswersGetIsCaseInsensitive(t *testing.T) {
	answers, err := LoadAnswers(writeFile(t, t.TempDir(), "presets.yaml", fullPresets))
	require.NoError(t, err)

	val, ok := answers.Get("HIGHEST-UNEMPLOYMENT")
	require.True(t, ok)
	assert.Equal(t, "y", val)

	_, ok = answers.Get("unknown-question")
	assert.False(t, ok)
}
