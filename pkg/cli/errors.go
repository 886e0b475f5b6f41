package cli

import (
	"errors"
	"fmt"

	"cccb/retentiond/pkg/ledger"
	"cccb/retentiond/pkg/scanner"
	"cccb/retentiond/pkg/tracking"
)

// ConfigError reports a problem with the daemon's configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// NewConfigError creates a ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// CommandError wraps a failure of one CLI command.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}

// Process exit codes. Scripts wrapping retentiond branch on these, so
// the mapping is part of the command-line contract.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfig      = 2
	ExitLedger      = 3
	ExitConsistency = 4
	ExitSchedule    = 5
	ExitConflict    = 6
)

// ExitCode maps an error to the process exit status. Notification
// delivery failures never reach here; they are logged inside the scan
// and do not fail the process.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var configErr *ConfigError
	var parseErr *ledger.ParseError
	var dateErr *ledger.MalformattedDateError
	var consistencyErr *ledger.ConsistencyError
	var scheduleErr *scanner.InvalidScheduleError
	var conflictErr *tracking.BucketConflictError

	switch {
	case errors.As(err, &configErr):
		return ExitConfig
	case errors.As(err, &dateErr), errors.As(err, &parseErr):
		return ExitLedger
	case errors.As(err, &consistencyErr):
		return ExitConsistency
	case errors.As(err, &scheduleErr):
		return ExitSchedule
	case errors.As(err, &conflictErr):
		return ExitConflict
	default:
		return ExitFailure
	}
}
