// Package notify delivers the external effects of a retention scan:
// templated reminder emails to clients, deletion-marking entries in the
// operator command log, and internal notices pointing staff at that log.
//
// Delivery is best-effort. Sends are retried with a configurable backoff
// policy; a send that exhausts its attempts is logged and surfaced to the
// caller, never escalated into a scan failure.
package notify
