package tracking

import (
	"context"
	"log/slog"
	"time"

	"cccb/retentiond/pkg/ledger"
)

// Delivery describes one project's completed cloud upload: the bucket the
// data landed in and the clients who should be notified about it. The
// upload step supplies one Delivery per project.
type Delivery struct {
	// Bucket is the cloud bucket name, without the gs:// scheme.
	Bucket string `yaml:"bucket"`

	// ClientEmails are the recipients for lifecycle notifications.
	ClientEmails []string `yaml:"client_emails"`
}

// Service merges delivery batches into the retention ledger.
type Service struct {
	store         *ledger.Store
	retentionDays int
	logger        *slog.Logger
	now           func() time.Time
}

// NewService creates an upsert service. retentionDays is the retention
// period applied to new records and to extensions of existing ones.
func NewService(store *ledger.Store, retentionDays int) *Service {
	return &Service{
		store:         store,
		retentionDays: retentionDays,
		logger:        slog.Default().With("component", "tracking"),
		now:           time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Track merges the delivery batch into the ledger and persists the result.
// The whole batch either commits or is rejected; a BucketConflictError for
// any project leaves the ledger file untouched.
func (s *Service) Track(ctx context.Context, deliveries map[string]Delivery) error {
	if len(deliveries) == 0 {
		s.logger.Info("no deliveries to track")
		return nil
	}
	now := s.now()
	_, err := s.store.Update(ctx, func(current ledger.Ledger) (ledger.Ledger, error) {
		return Apply(current, deliveries, s.retentionDays, now)
	})
	if err != nil {
		return err
	}
	s.logger.Info("tracked deliveries",
		"deliveries", len(deliveries),
		"retention_days", s.retentionDays,
		"target_date", now.AddDate(0, 0, s.retentionDays).Format("2006-01-02"),
	)
	return nil
}

// Apply merges deliveries into a copy of the ledger and returns it. The
// input ledger is never mutated.
//
// Per project:
//   - absent: insert a record with target_date = now + retentionDays
//   - present, same bucket: union the email sets, reset target_date to
//     now + retentionDays (each delivery extends retention; the date is
//     replaced, not incremented)
//   - present, different bucket: BucketConflictError, nothing applied
//
// All deliveries are validated before any is applied, so a conflict late
// in the batch cannot leave earlier entries half-committed.
func Apply(current ledger.Ledger, deliveries map[string]Delivery, retentionDays int, now time.Time) (ledger.Ledger, error) {
	logger := slog.Default().With("component", "tracking")

	for projectID, delivery := range deliveries {
		existing, ok := current[projectID]
		if ok && existing.Bucket != delivery.Bucket {
			logger.Error("delivery bucket does not match ledger record",
				"project_id", projectID,
				"ledger_bucket", existing.Bucket,
				"delivery_bucket", delivery.Bucket,
			)
			return nil, NewBucketConflictError(projectID, existing.Bucket, delivery.Bucket)
		}
	}

	targetDate := now.AddDate(0, 0, retentionDays)
	updated := current.Clone()
	for projectID, delivery := range deliveries {
		if existing, ok := updated[projectID]; ok {
			logger.Info("extending retention for known project",
				"project_id", projectID,
				"bucket", existing.Bucket,
				"old_target_date", existing.TargetDate.Format("2006-01-02"),
				"new_target_date", targetDate.Format("2006-01-02"),
			)
			existing.AddEmails(delivery.ClientEmails)
			existing.TargetDate = targetDate
			continue
		}
		logger.Info("recording new project",
			"project_id", projectID,
			"bucket", delivery.Bucket,
			"target_date", targetDate.Format("2006-01-02"),
		)
		updated[projectID] = ledger.NewRetentionRecord(projectID, delivery.Bucket, delivery.ClientEmails, targetDate)
	}
	return updated, nil
}
