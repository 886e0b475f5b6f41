package scanner

import "fmt"

// InvalidScheduleError reports a reminder threshold configuration that
// cannot be used: a value that does not parse as an integer, a non-positive
// day count, or an empty schedule. It is raised before any record is
// examined, so a bad schedule never produces a partial scan.
type InvalidScheduleError struct {
	Value  string // offending raw value, if one was isolated
	Reason string
}

// Error implements the error interface.
func (e *InvalidScheduleError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid reminder schedule value %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid reminder schedule: %s", e.Reason)
}

// NewInvalidScheduleError creates a new InvalidScheduleError.
func NewInvalidScheduleError(value, reason string) *InvalidScheduleError {
	return &InvalidScheduleError{Value: value, Reason: reason}
}
