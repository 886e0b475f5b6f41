package scanner

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"cccb/retentiond/pkg/ledger"
	"cccb/retentiond/pkg/telemetry/metrics"
)

// Notifier receives the actions a scan decides on. Notification failures
// are non-fatal to the scan: the scanner logs the error and moves to the
// next record.
type Notifier interface {
	// SendReminder notifies a record's clients that daysRemaining days are
	// left before expiration.
	SendReminder(ctx context.Context, rec *ledger.RetentionRecord, daysRemaining int) error

	// MarkForDeletion flags an expired record for manual cleanup.
	MarkForDeletion(ctx context.Context, rec *ledger.RetentionRecord) error
}

// Scanner performs one read-only pass over the ledger per invocation.
type Scanner struct {
	store        *ledger.Store
	notifier     Notifier
	reminderDays []int
	logger       *slog.Logger
	metrics      *metrics.Collector
	now          func() time.Time
}

// New creates a scanner. reminderDays are the days-before-expiration
// thresholds at which reminders fire; they are validated on every Scan so
// a bad config change is caught before any record is examined.
func New(store *ledger.Store, notifier Notifier, reminderDays []int) *Scanner {
	return &Scanner{
		store:        store,
		notifier:     notifier,
		reminderDays: reminderDays,
		logger:       slog.Default().With("component", "scanner"),
		now:          time.Now,
	}
}

// WithMetrics attaches a metrics collector.
func (s *Scanner) WithMetrics(c *metrics.Collector) *Scanner {
	s.metrics = c
	return s
}

// WithClock overrides the time source. Intended for tests.
func (s *Scanner) WithClock(now func() time.Time) *Scanner {
	s.now = now
	return s
}

// Scan loads a consistency-checked view of the ledger and dispatches
// reminder and deletion-marking actions. Parse, consistency, and schedule
// errors are fatal and abort before any notification is attempted.
// Notification delivery failures are logged and do not fail the scan.
func (s *Scanner) Scan(ctx context.Context) error {
	started := s.now()

	if err := ValidateReminderDays(s.reminderDays); err != nil {
		return err
	}
	contents, err := s.store.LoadConsistent(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("starting retention scan",
		"records", len(contents),
		"reminder_days", s.reminderDays,
	)

	now := s.now()
	var reminders, markings int
	for _, projectID := range contents.ProjectIDs() {
		rec := contents[projectID]
		daysUntil := DaysUntil(rec.TargetDate, now)

		switch {
		case s.isReminderDay(daysUntil):
			s.logger.Info("project due for a reminder",
				"project_id", projectID,
				"days_until_expiration", daysUntil,
			)
			reminders++
			if err := s.notifier.SendReminder(ctx, rec, daysUntil); err != nil {
				s.notifyFailed(projectID, "reminder", err)
			} else if s.metrics != nil {
				s.metrics.ReminderSent(daysUntil)
			}
		case daysUntil == 0:
			s.logger.Info("project due for removal",
				"project_id", projectID,
				"bucket", rec.Bucket,
			)
			markings++
			if err := s.notifier.MarkForDeletion(ctx, rec); err != nil {
				s.notifyFailed(projectID, "deletion marking", err)
			} else if s.metrics != nil {
				s.metrics.DeletionMarked()
			}
		}
	}

	if s.metrics != nil {
		s.metrics.ScanCompleted(len(contents), time.Since(started))
	}
	s.logger.Info("retention scan complete",
		"records", len(contents),
		"reminders", reminders,
		"marked_for_deletion", markings,
		"elapsed", time.Since(started),
	)
	return nil
}

func (s *Scanner) notifyFailed(projectID, action string, err error) {
	// Best-effort delivery: record the failure, keep scanning.
	s.logger.Error("notification failed",
		"project_id", projectID,
		"action", action,
		"error", err,
	)
	if s.metrics != nil {
		s.metrics.NotificationFailed()
	}
}

func (s *Scanner) isReminderDay(days int) bool {
	for _, d := range s.reminderDays {
		if d == days {
			return true
		}
	}
	return false
}

// DaysUntil computes the whole days remaining before target, using the
// inclusive convention the ledger has always used:
//
//	daysUntil = floor((target - now) / 24h) + 1
//
// floor rounds toward negative infinity, so a target date earlier today
// (a few hours in the past) still computes to 0, and one full day past
// computes to -1. Date fields carry no time component, so a record whose
// date equals today's date reads as 0 days remaining for any scan sampled
// after midnight; sampled at midnight exactly it reads 1. Scheduling scans
// shortly after midnight keeps the counts stable.
func DaysUntil(target, now time.Time) int {
	return int(math.Floor(target.Sub(now).Hours()/24)) + 1
}

// ParseReminderDays parses reminder thresholds from their string form, as
// found in legacy config files or a --reminders flag. Any value that does
// not parse as an integer fails the whole schedule.
func ParseReminderDays(values []string) ([]int, error) {
	days := make([]int, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, NewInvalidScheduleError(v, "not an integer")
		}
		days = append(days, n)
	}
	if err := ValidateReminderDays(days); err != nil {
		return nil, err
	}
	return days, nil
}

// ValidateReminderDays rejects empty schedules and non-positive thresholds.
func ValidateReminderDays(days []int) error {
	if len(days) == 0 {
		return NewInvalidScheduleError("", "no reminder thresholds configured")
	}
	for _, d := range days {
		if d <= 0 {
			return NewInvalidScheduleError(strconv.Itoa(d), "thresholds must be positive day counts")
		}
	}
	return nil
}
