package ledger

import "fmt"

// Replica is a named ledger snapshot, typically a backup copy loaded from
// a secondary location.
type Replica struct {
	// Name identifies the replica in errors and logs, usually its path.
	Name string

	// Contents is the parsed ledger.
	Contents Ledger
}

// EnsureConsistent compares the primary ledger against every backup replica
// and returns the shared contents when they all agree. The first divergence
// fails with a ConsistencyError naming the replica; callers must not proceed
// with a scan or upsert on a divergent view.
func EnsureConsistent(primary Ledger, backups []Replica) (Ledger, error) {
	for _, backup := range backups {
		if err := compare(primary, backup); err != nil {
			return nil, err
		}
	}
	return primary, nil
}

// compare checks one replica against the primary, record by record.
func compare(primary Ledger, backup Replica) error {
	for id := range backup.Contents {
		if _, ok := primary[id]; !ok {
			return NewConsistencyError(backup.Name, id, "project missing from primary")
		}
	}
	for id, rec := range primary {
		other, ok := backup.Contents[id]
		if !ok {
			return NewConsistencyError(backup.Name, id, "project missing from replica")
		}
		if !rec.Equal(other) {
			return NewConsistencyError(backup.Name, id, fmt.Sprintf("record differs: primary=%s replica=%s", describe(rec), describe(other)))
		}
	}
	return nil
}

func describe(r *RetentionRecord) string {
	return fmt.Sprintf("{bucket=%s emails=%v target=%s}", r.Bucket, r.ClientEmails, r.TargetDate.Format("2006-01-02"))
}
