// Package audit keeps a queryable trail of scan side effects: reminders
// sent, projects marked for deletion, and deliveries that failed. The
// ledger itself stays stateless across scans, so this trail is how an
// operator answers "did the client for project X already get the 7-day
// warning, and how many times?".
//
// Two backends are provided: an in-memory store for tests and short-lived
// invocations, and a SQLite store for the daemon.
package audit
