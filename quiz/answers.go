package quiz

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/qolatlas/qolatlas/dataset"
)

// ============================================================================
// ANSWERS — preset responses from a config file
// ============================================================================
// A preset answer bypasses the interactive prompt for its question. The file
// is viper-loaded, so YAML, TOML, and JSON all work:
//
//	answers:
//	  highest-unemployment: y
//	  highest-unemployment-guess: Nevada
//	  qol-comparison: y
//	  qol-comparison-states: California, Texas, New York
//
// ============================================================================

// Answers maps question keys to preset responses.
type Answers struct {
	values map[string]string
}

// NoAnswers returns an empty preset set (every question prompts).
func NoAnswers() *Answers {
	return &Answers{values: map[string]string{}}
}

// LoadAnswers reads a preset answers file. A missing or unparseable file is a
// dataset.ErrDataLoad, consistent with the rest of the load path.
func LoadAnswers(path string) (*Answers, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: answers config %s: %v", dataset.ErrDataLoad, path, err)
	}

	values := make(map[string]string)
	for key, val := range v.GetStringMapString("answers") {
		values[strings.ToLower(key)] = strings.TrimSpace(val)
	}
	return &Answers{values: values}, nil
}

// Get returns the preset answer for a key, if any.
func (a *Answers) Get(key string) (string, bool) {
	val, ok := a.values[strings.ToLower(key)]
	return val, ok && val != ""
}

// Len returns the number of preset answers.
func (a *Answers) Len() int { return len(a.values) }
