package dataset

import "errors"

// Error taxonomy for the data layer. Callers match with errors.Is; load
// errors are fatal, lookup errors are recoverable per question.
var (
	// ErrDataLoad means a dataset file is missing or malformed.
	ErrDataLoad = errors.New("data load failed")

	// ErrNotFound means an unknown state was requested.
	ErrNotFound = errors.New("state not found")
)
