// Package scanner walks the retention ledger and decides, per record, how
// many whole days remain until expiration. Records landing exactly on a
// configured reminder threshold trigger a client reminder; records at zero
// days are marked for deletion via the operator command log. The scan never
// mutates the ledger; all of its effects are external.
//
// In daemon mode a cron-style Scheduler drives repeated scans. Reminder
// sends are not deduplicated across scans, so the schedule should fire once
// per day, shortly after midnight, to keep one calendar day mapping to one
// integer day count.
package scanner
