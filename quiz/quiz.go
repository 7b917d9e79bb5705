package quiz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/qolatlas/qolatlas/dataset"
	"github.com/qolatlas/qolatlas/viz"
)

// ============================================================================
// QUIZ RUNNER — question-driven dispatch
// ============================================================================
// A fixed, ordered list of questions. Each question consults the preset
// answers first, then prompts; answers route to dataset lookups and chart
// rendering. The dispatch table maps question identifiers to handler
// functions — no string-based control flow beyond the table itself.
// ============================================================================

// ErrInput means an interactive answer stayed invalid after all retries.
var ErrInput = errors.New("invalid input")

// maxAttempts bounds re-prompting per question.
const maxAttempts = 3

// QuestionID identifies one question in the fixed sequence.
type QuestionID string

const (
	QHighestUnemployment  QuestionID = "highest-unemployment"
	QLowestUnemployment   QuestionID = "lowest-unemployment"
	QUnemploymentChart    QuestionID = "unemployment-chart"
	QQOLComparison        QuestionID = "qol-comparison"
	QHappiestStates       QuestionID = "happiest-states"
	QHappinessCorrelation QuestionID = "happiness-correlation"
)

// Handler runs one question after the user answered yes to it.
type Handler func(r *Runner) error

type question struct {
	ID      QuestionID
	Prompt  string
	Handler Handler
}

// questions is the ordered dispatch table. The run terminates when every
// entry has been processed.
var questions = []question{
	{QHighestUnemployment, "Would you like to find out which state has the highest unemployment rate?", handleHighestUnemployment},
	{QLowestUnemployment, "Would you like to find out which state has the lowest unemployment rate?", handleLowestUnemployment},
	{QUnemploymentChart, "Would you like to view the Unemployment Rates by State chart?", handleUnemploymentChart},
	{QQOLComparison, "Would you like to view the Quality of Life Comparison chart?", handleQOLComparison},
	{QHappiestStates, "Would you like to see the happiest states?", handleHappiestStates},
	{QHappinessCorrelation, "Would you like to see the correlation between unemployment and happiness?", handleHappinessCorrelation},
}

// Runner walks the question sequence against a loaded dataset.
type Runner struct {
	data    *dataset.Dataset
	charts  *viz.Renderer
	answers *Answers
	in      *bufio.Reader
	out     io.Writer
	log     zerolog.Logger
}

// NewRunner wires a Runner. The answers may be empty but not nil.
func NewRunner(data *dataset.Dataset, charts *viz.Renderer, answers *Answers, in io.Reader, out io.Writer, log zerolog.Logger) *Runner {
	return &Runner{
		data:    data,
		charts:  charts,
		answers: answers,
		in:      bufio.NewReader(in),
		out:     out,
		log:     log,
	}
}

// Run processes every question in order. The first unrecoverable error
// (exhausted retries, render failure) aborts the run.
func (r *Runner) Run() error {
	for _, q := range questions {
		yes, err := r.askYesNo(string(q.ID), q.Prompt)
		if err != nil {
			return err
		}
		if !yes {
			continue
		}
		if err := q.Handler(r); err != nil {
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
	}
	color.New(color.FgGreen).Fprintln(r.out, "All questions processed. Goodbye!")
	return nil
}

// ============================================================================
// INPUT
// ============================================================================

// ask resolves one answer: preset first, else prompt with bounded retries.
// The validator normalizes the raw answer or rejects it with a reason shown
// to the user. Every resolved answer is logged.
func (r *Runner) ask(key, prompt string, validate func(string) (string, error)) (string, error) {
	if raw, ok := r.answers.Get(key); ok {
		answer, err := validate(raw)
		if err != nil {
			// A bad preset can't be retried interactively; the config is wrong.
			return "", fmt.Errorf("%w: preset answer for %q: %v", ErrInput, key, err)
		}
		r.log.Info().Str("question", key).Str("answer", answer).Bool("preset", true).Msg("question answered")
		return answer, nil
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		color.New(color.FgYellow).Fprintf(r.out, "%s ", prompt)

		raw, err := r.in.ReadString('\n')
		if err != nil && raw == "" {
			return "", fmt.Errorf("%w: reading answer for %q: %v", ErrInput, key, err)
		}

		answer, verr := validate(strings.TrimSpace(raw))
		if verr == nil {
			r.log.Info().Str("question", key).Str("answer", answer).Bool("preset", false).Msg("question answered")
			return answer, nil
		}
		color.New(color.FgRed).Fprintf(r.out, "%v\n", verr)
	}

	return "", fmt.Errorf("%w: no valid answer for %q after %d attempts", ErrInput, key, maxAttempts)
}

// askYesNo asks a y/n question.
func (r *Runner) askYesNo(key, prompt string) (bool, error) {
	answer, err := r.ask(key, prompt+" (y/n):", validateYesNo)
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}

func validateYesNo(s string) (string, error) {
	switch strings.ToLower(s) {
	case "y", "yes":
		return "y", nil
	case "n", "no":
		return "n", nil
	}
	return "", fmt.Errorf("please enter 'y' for yes or 'n' for no")
}

// validateState accepts a full state name present in the dataset.
func (r *Runner) validateState(s string) (string, error) {
	rec, err := r.data.Get(s)
	if err != nil {
		return "", fmt.Errorf("please enter the full name of a valid state, not an abbreviation")
	}
	return rec.Name, nil
}

// validateStateList accepts a comma-separated list of full state names.
func (r *Runner) validateStateList(s string) (string, error) {
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		rec, err := r.data.Get(p)
		if err != nil {
			return "", fmt.Errorf("%q is not a valid state, please try again", p)
		}
		names = append(names, rec.Name)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("please enter at least one state")
	}
	return strings.Join(names, ", "), nil
}
