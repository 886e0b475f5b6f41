package notify

import (
	"context"
	"log/slog"

	"cccb/retentiond/pkg/audit"
	"cccb/retentiond/pkg/ledger"
)

// Sender delivers one message. Satisfied by *Mailer; tests substitute a
// capture.
type Sender interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

// Config carries the notifier's rendering and addressing settings.
type Config struct {
	// ClientSubject is the subject line for client reminder emails.
	ClientSubject string

	// InternalSubject is the subject line for staff deletion notices.
	InternalSubject string

	// InternalList is the fixed internal distribution list for deletion
	// notices.
	InternalList []string

	// DownloadSite is the URL clients use to fetch their data, embedded
	// in reminder emails.
	DownloadSite string

	// StorageCostPerGBMonth prices the monthly-cost estimate in reminder
	// emails.
	StorageCostPerGBMonth float64
}

// Notifier renders and delivers reminder emails and deletion markings.
type Notifier struct {
	sender Sender
	sizer  SizeEstimator
	cmdlog *CommandLog
	trail  audit.Store
	config Config
	logger *slog.Logger
}

// New creates a notifier. trail may be nil to skip audit recording.
func New(sender Sender, sizer SizeEstimator, cmdlog *CommandLog, trail audit.Store, config Config) *Notifier {
	return &Notifier{
		sender: sender,
		sizer:  sizer,
		cmdlog: cmdlog,
		trail:  trail,
		config: config,
		logger: slog.Default().With("component", "notify"),
	}
}

// SendReminder emails a record's clients that daysRemaining days are left.
// The body includes the expiration date, the approximate bucket size, and
// the estimated monthly storage cost. Errors are reported to the caller
// but are expected to be treated as non-fatal.
func (n *Notifier) SendReminder(ctx context.Context, rec *ledger.RetentionRecord, daysRemaining int) error {
	sizeGB, err := n.sizer.BucketSizeGB(ctx, rec.Bucket)
	if err != nil {
		// A missing size estimate should not cost the client their
		// warning; send with a zero estimate and note the failure.
		n.logger.Warn("bucket size estimation failed, sending reminder without size",
			"project_id", rec.ProjectID,
			"bucket", rec.Bucket,
			"error", err,
		)
		sizeGB = 0
	}

	body, err := renderReminder(rec.ProjectID, rec.TargetDate, daysRemaining, sizeGB, n.config.StorageCostPerGBMonth, n.config.DownloadSite)
	if err != nil {
		return err
	}

	if err := n.sender.Send(ctx, rec.ClientEmails, n.config.ClientSubject, body); err != nil {
		n.record(ctx, failureEvent(rec, err))
		return err
	}

	event := audit.NewEvent(audit.KindReminderSent, rec.ProjectID, rec.Bucket)
	event.DaysRemaining = daysRemaining
	event.Recipients = rec.ClientEmails
	n.record(ctx, event)

	n.logger.Info("reminder sent",
		"project_id", rec.ProjectID,
		"days_remaining", daysRemaining,
		"recipients", len(rec.ClientEmails),
	)
	return nil
}

// MarkForDeletion appends the project's removal commands to the operator
// command log and notifies the internal distribution list. The log append
// is the essential side effect; if it fails nothing is emailed.
func (n *Notifier) MarkForDeletion(ctx context.Context, rec *ledger.RetentionRecord) error {
	if err := n.cmdlog.AppendRemoval(rec.ProjectID, rec.Bucket, rec.ClientEmails); err != nil {
		return err
	}

	event := audit.NewEvent(audit.KindDeletionMarked, rec.ProjectID, rec.Bucket)
	event.Recipients = n.config.InternalList
	n.record(ctx, event)

	n.logger.Info("project marked for deletion",
		"project_id", rec.ProjectID,
		"bucket", rec.Bucket,
		"command_log", n.cmdlog.Path(),
	)

	body, err := renderDeletionNotice(rec.ProjectID, rec.Bucket, n.cmdlog.Path())
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, n.config.InternalList, n.config.InternalSubject, body); err != nil {
		n.record(ctx, failureEvent(rec, err))
		return err
	}
	return nil
}

// record writes an audit event, logging rather than failing on error: the
// trail is observability, not the source of truth.
func (n *Notifier) record(ctx context.Context, event *audit.Event) {
	if n.trail == nil {
		return
	}
	if err := n.trail.Record(ctx, event); err != nil {
		n.logger.Warn("failed to record audit event",
			"kind", event.Kind,
			"project_id", event.ProjectID,
			"error", err,
		)
	}
}

func failureEvent(rec *ledger.RetentionRecord, cause error) *audit.Event {
	event := audit.NewEvent(audit.KindDeliveryFailed, rec.ProjectID, rec.Bucket)
	event.Recipients = rec.ClientEmails
	event.Detail = cause.Error()
	return event
}
