package ledger

import (
	"slices"
	"strings"
	"time"
)

// RetentionRecord tracks one delivered project: the bucket holding its data,
// the clients who receive lifecycle notifications, and the date after which
// the data is eligible for deletion.
type RetentionRecord struct {
	// ProjectID is the external identifier for the delivery (an order or
	// lab ID). It is the unique ledger key and never changes.
	ProjectID string

	// Bucket is the cloud bucket holding the delivered data. It is fixed
	// when the record is created; a later delivery for the same project
	// into a different bucket is a conflict, not an update.
	Bucket string

	// ClientEmails are the notification recipients. Kept deduplicated and
	// sorted so that serialization is deterministic; equality is set-based.
	ClientEmails []string

	// TargetDate is the expiration date. Day precision only.
	TargetDate time.Time
}

// NewRetentionRecord creates a record with a normalized email list.
func NewRetentionRecord(projectID, bucket string, emails []string, targetDate time.Time) *RetentionRecord {
	return &RetentionRecord{
		ProjectID:    projectID,
		Bucket:       bucket,
		ClientEmails: NormalizeEmails(emails),
		TargetDate:   targetDate,
	}
}

// Clone returns a deep copy of the record.
func (r *RetentionRecord) Clone() *RetentionRecord {
	c := *r
	c.ClientEmails = slices.Clone(r.ClientEmails)
	return &c
}

// Equal reports whether two records are semantically identical: same
// project, same bucket, same email set, same target date.
func (r *RetentionRecord) Equal(other *RetentionRecord) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.ProjectID == other.ProjectID &&
		r.Bucket == other.Bucket &&
		r.TargetDate.Equal(other.TargetDate) &&
		slices.Equal(r.ClientEmails, other.ClientEmails)
}

// AddEmails merges more recipients into the record's email set.
func (r *RetentionRecord) AddEmails(emails []string) {
	r.ClientEmails = NormalizeEmails(append(r.ClientEmails, emails...))
}

// NormalizeEmails trims, deduplicates, and sorts an email list. Empty
// entries are dropped.
func NormalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Ledger maps project IDs to their retention records.
type Ledger map[string]*RetentionRecord

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	c := make(Ledger, len(l))
	for id, rec := range l {
		c[id] = rec.Clone()
	}
	return c
}

// Equal reports whether two ledgers hold the identical record set.
func (l Ledger) Equal(other Ledger) bool {
	if len(l) != len(other) {
		return false
	}
	for id, rec := range l {
		if !rec.Equal(other[id]) {
			return false
		}
	}
	return true
}

// ProjectIDs returns the sorted project IDs, the order records are
// serialized in.
func (l Ledger) ProjectIDs() []string {
	ids := make([]string, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
