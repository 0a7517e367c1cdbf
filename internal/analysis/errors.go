// ABOUTME: Outcome taxonomy for analysis results: sentinel errors and result status tags.
// ABOUTME: ValidationError aggregates every record that violated its invariants.
package analysis

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	// ErrInsufficientData means fewer observations than a computation needs.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrUndefinedStatistic means the statistic has no value for the input (zero variance).
	ErrUndefinedStatistic = errors.New("undefined statistic")
	// ErrInvalidInput means the caller passed values outside the domain (reps <= 0, mismatched series).
	ErrInvalidInput = errors.New("invalid input")
)

// Status tags every derived result so callers branch on it instead of on errors.
// The zero value is StatusInsufficientData.
type Status int

const (
	StatusInsufficientData Status = iota
	StatusOK
	StatusUndefined
	StatusInvalidInput
	// StatusNoQualifying means no observation met the target condition.
	StatusNoQualifying
)

var statusNames = map[Status]string{
	StatusOK:               "ok",
	StatusInsufficientData: "insufficient_data",
	StatusUndefined:        "undefined",
	StatusInvalidInput:     "invalid_input",
	StatusNoQualifying:     "no_qualifying_observations",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText renders the status by name in JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// OK reports whether the result carries a value.
func (s Status) OK() bool {
	return s == StatusOK
}

// statusOf maps a sentinel error to its status tag.
func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInsufficientData):
		return StatusInsufficientData
	case errors.Is(err, ErrUndefinedStatistic):
		return StatusUndefined
	default:
		return StatusInvalidInput
	}
}

// ValidationError is returned when a snapshot contains malformed records.
// No partial result accompanies it.
type ValidationError struct {
	Failures []error
}

func newValidationError(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Failures: multierr.Errors(err)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid snapshot: %d record(s) failed validation: %v",
		len(e.Failures), multierr.Combine(e.Failures...))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Failures
}
