package ledger

import "fmt"

// ParseError reports a non-blank ledger line that does not split into
// exactly four tab-separated fields. The whole load fails; no partial
// ledger is returned.
type ParseError struct {
	Path string // ledger file being loaded
	Line int    // 1-based line number
	Text string // offending line
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("ledger parse error at %s:%d: expected 4 tab-separated fields in line %q", e.Path, e.Line, e.Text)
}

// NewParseError creates a new ParseError.
func NewParseError(path string, line int, text string) *ParseError {
	return &ParseError{Path: path, Line: line, Text: text}
}

// MalformattedDateError reports a date field that does not parse under the
// configured date layout. Fatal to the load, same as ParseError.
type MalformattedDateError struct {
	Path   string // ledger file being loaded
	Line   int    // 1-based line number
	Value  string // raw date field
	Layout string // expected Go time layout
	Cause  error  // underlying time.Parse error
}

// Error implements the error interface.
func (e *MalformattedDateError) Error() string {
	return fmt.Sprintf("malformatted date %q at %s:%d (expected layout %q): %v", e.Value, e.Path, e.Line, e.Layout, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *MalformattedDateError) Unwrap() error {
	return e.Cause
}

// NewMalformattedDateError creates a new MalformattedDateError.
func NewMalformattedDateError(path string, line int, value, layout string, cause error) *MalformattedDateError {
	return &MalformattedDateError{Path: path, Line: line, Value: value, Layout: layout, Cause: cause}
}

// ConsistencyError reports a backup ledger that diverges from the primary.
// Callers must treat this as fatal: neither a scan nor an upsert may proceed
// on a possibly stale view. Repair is a human decision; picking a winner
// automatically risks silent data loss.
type ConsistencyError struct {
	Replica   string // path or name of the diverging replica
	ProjectID string // first diverging project, if identified
	Detail    string // human-readable description of the divergence
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	if e.ProjectID != "" {
		return fmt.Sprintf("ledger replica %s diverges from primary at project %q: %s", e.Replica, e.ProjectID, e.Detail)
	}
	return fmt.Sprintf("ledger replica %s diverges from primary: %s", e.Replica, e.Detail)
}

// NewConsistencyError creates a new ConsistencyError.
func NewConsistencyError(replica, projectID, detail string) *ConsistencyError {
	return &ConsistencyError{Replica: replica, ProjectID: projectID, Detail: detail}
}
