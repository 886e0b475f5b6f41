package scanner

import (
	"context"
	"path/filepath"
	"os"
	"testing"
	"time"

	"cccb/retentiond/pkg/ledger"
)

func schedulerScanner(t *testing.T) *Scanner {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retention.db")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	store := ledger.NewStore(ledger.StoreConfig{Path: path, DateLayout: dateLayout})
	return New(store, &recordingNotifier{}, []int{14, 7, 3})
}

// TestScheduler_InvalidExpression rejects malformed cron expressions.
func TestScheduler_InvalidExpression(t *testing.T) {
	s := NewScheduler(schedulerScanner(t), "not a cron line")
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
	if s.IsRunning() {
		t.Error("scheduler running after failed start")
	}
}

// TestScheduler_EmptyScheduleIsNoop verifies an empty schedule disables
// scheduling without error.
func TestScheduler_EmptyScheduleIsNoop(t *testing.T) {
	s := NewScheduler(schedulerScanner(t), "")
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler should not run with an empty schedule")
	}
	if s.NextScan() != nil {
		t.Error("no next scan expected with an empty schedule")
	}
}

// TestScheduler_StartStop verifies the lifecycle and that a next scan time
// is published while running.
func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(schedulerScanner(t), "15 0 * * *")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler not running after start")
	}

	next := s.NextScan()
	if next == nil {
		t.Fatal("expected a next scan time")
	}
	if !next.After(time.Now()) {
		t.Errorf("next scan %v is not in the future", next)
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler still running after stop")
	}
}
