package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the scanner at cron-scheduled intervals in daemon mode.
type Scheduler struct {
	scanner  *Scanner
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler that fires the scanner per the given
// cron expression.
//
// Common expressions:
//   - "15 0 * * *"  - daily at 00:15 (recommended: day counts are stable
//     when the scan runs just after midnight)
//   - "0 6 * * *"   - daily at 6 AM
func NewScheduler(scanner *Scanner, schedule string) *Scheduler {
	return &Scheduler{
		scanner:  scanner,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "scanner.scheduler"),
	}
}

// Start begins scheduled scanning. If the schedule is empty, the scheduler
// does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("scan schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runScan(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule scan: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("scan scheduler started",
		"schedule", s.schedule,
		"reminder_days", s.scanner.reminderDays,
	)

	// Stop with the surrounding context.
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runScan executes one scheduled scan cycle.
func (s *Scheduler) runScan(ctx context.Context) {
	s.logger.Info("starting scheduled retention scan")

	if err := s.scanner.Scan(ctx); err != nil {
		// Fatal scan errors (parse, consistency, schedule) are surfaced
		// here but must not kill the daemon; the next tick retries after
		// a human fixes the ledger.
		s.logger.Error("scheduled scan failed", "error", err)
	}
}

// Stop stops the scheduler and waits for a running scan to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("scan scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextScan returns the next scheduled scan time.
func (s *Scheduler) NextScan() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
