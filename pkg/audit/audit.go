package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an audit event.
type Kind string

const (
	// KindReminderSent records a successfully delivered client reminder.
	KindReminderSent Kind = "reminder_sent"

	// KindDeletionMarked records a project appended to the cleanup
	// command log.
	KindDeletionMarked Kind = "deletion_marked"

	// KindDeliveryFailed records a notification that exhausted its
	// delivery attempts.
	KindDeliveryFailed Kind = "delivery_failed"
)

// Event is one recorded scan side effect.
type Event struct {
	// ID is a generated unique identifier.
	ID string

	// Time is when the event was recorded.
	Time time.Time

	// Kind classifies the event.
	Kind Kind

	// ProjectID and Bucket identify the affected record.
	ProjectID string
	Bucket    string

	// DaysRemaining is the matched reminder threshold, for reminder
	// events. Zero otherwise.
	DaysRemaining int

	// Recipients are the addresses the notification went to (or was
	// meant to go to).
	Recipients []string

	// Detail carries free-form context, e.g. the delivery error.
	Detail string
}

// NewEvent creates an event with a fresh ID and timestamp.
func NewEvent(kind Kind, projectID, bucket string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Time:      time.Now().UTC(),
		Kind:      kind,
		ProjectID: projectID,
		Bucket:    bucket,
	}
}

// Query filters audit events. Zero-valued fields match everything.
type Query struct {
	// ProjectID restricts to one project.
	ProjectID string

	// Kind restricts to one event kind.
	Kind Kind

	// Since/Until bound the event time (inclusive since, exclusive until).
	Since time.Time
	Until time.Time

	// Limit caps the number of returned events; 0 means no cap.
	Limit int
}

// Store persists audit events.
type Store interface {
	// Record appends one event.
	Record(ctx context.Context, event *Event) error

	// Find returns matching events, newest first.
	Find(ctx context.Context, query *Query) ([]*Event, error)

	// Count returns the number of matching events.
	Count(ctx context.Context, query *Query) (int64, error)

	// Close releases backend resources.
	Close() error
}

// matches reports whether an event satisfies a query. Shared by the
// memory backend and tests.
func matches(e *Event, q *Query) bool {
	if q == nil {
		return true
	}
	if q.ProjectID != "" && e.ProjectID != q.ProjectID {
		return false
	}
	if q.Kind != "" && e.Kind != q.Kind {
		return false
	}
	if !q.Since.IsZero() && e.Time.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !e.Time.Before(q.Until) {
		return false
	}
	return true
}
