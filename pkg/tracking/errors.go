package tracking

import "fmt"

// BucketConflictError reports a delivery that maps a known project to a
// different bucket than the one on record. Projects and buckets are
// one-to-one for the lifetime of a record; a mismatch means something
// upstream went wrong and a human needs to look at it. The batch it
// arrived in is rejected whole.
type BucketConflictError struct {
	ProjectID      string // conflicting project
	ExistingBucket string // bucket on record
	DeliveryBucket string // bucket in the incoming delivery
}

// Error implements the error interface.
func (e *BucketConflictError) Error() string {
	return fmt.Sprintf("project %q is recorded in bucket %q but was delivered to bucket %q; refusing to reassign",
		e.ProjectID, e.ExistingBucket, e.DeliveryBucket)
}

// NewBucketConflictError creates a new BucketConflictError.
func NewBucketConflictError(projectID, existing, delivery string) *BucketConflictError {
	return &BucketConflictError{
		ProjectID:      projectID,
		ExistingBucket: existing,
		DeliveryBucket: delivery,
	}
}
