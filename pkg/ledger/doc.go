// Package ledger implements the flat-file retention ledger: the record
// types, the tab-separated codec, the replica consistency checker, and a
// file-backed store that serializes read-modify-write cycles behind an
// advisory lock.
//
// The on-disk format is one record per line, four tab-separated fields:
//
//	<project_id>\t<bucket_name>\t<email1>,<email2>,...\t<target_date>
//
// The date field is formatted with a configurable Go time layout. Blank
// lines are skipped on load. The format is frozen for compatibility with
// ledger files written by earlier tooling.
package ledger
