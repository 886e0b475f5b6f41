// Package tracking records newly delivered projects in the retention
// ledger. It runs once per completed delivery: new projects get a record
// with a fresh expiration date, repeat deliveries for a known project
// extend the expiration and merge the client email sets, and a project
// that shows up pointing at a different bucket is rejected as a conflict.
//
// A batch is applied atomically: every delivery is validated before any
// record is touched, so a conflict anywhere in the batch leaves the ledger
// exactly as it was.
package tracking
