package cli

import (
	"errors"
	"fmt"
	"testing"

	"cccb/retentiond/pkg/ledger"
	"cccb/retentiond/pkg/scanner"
	"cccb/retentiond/pkg/tracking"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"generic", errors.New("boom"), ExitFailure},
		{"config", NewConfigError("retention_period", "must be positive"), ExitConfig},
		{"parse", ledger.NewParseError("/data/ledger.tsv", 3, "abc\tbucket"), ExitLedger},
		{
			"malformed date",
			ledger.NewMalformattedDateError("/data/ledger.tsv", 3, "13/13/2017", "01/02/2006", errors.New("month out of range")),
			ExitLedger,
		},
		{"consistency", ledger.NewConsistencyError("/backup/ledger.tsv", "abc", "missing from replica"), ExitConsistency},
		{"schedule", scanner.NewInvalidScheduleError("x7", "not an integer"), ExitSchedule},
		{
			"bucket conflict",
			&tracking.BucketConflictError{ProjectID: "abc", ExistingBucket: "bucket-a", DeliveryBucket: "bucket-b"},
			ExitConflict,
		},
		{
			"wrapped still maps",
			fmt.Errorf("scan aborted: %w", ledger.NewConsistencyError("/backup/ledger.tsv", "abc", "diverged")),
			ExitConsistency,
		},
		{
			"command error unwraps",
			NewCommandError("scan", scanner.NewInvalidScheduleError("", "empty")),
			ExitSchedule,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestCommandError_Message(t *testing.T) {
	err := NewCommandError("track", errors.New("deliveries file missing"))
	if err.Error() != "command track failed: deliveries file missing" {
		t.Errorf("Error() = %q", err.Error())
	}
	if errors.Unwrap(err) == nil {
		t.Error("Unwrap returned nil")
	}
}
