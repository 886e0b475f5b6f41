package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id             TEXT PRIMARY KEY,
	event_time     INTEGER NOT NULL,
	kind           TEXT NOT NULL,
	project_id     TEXT NOT NULL,
	bucket         TEXT NOT NULL,
	days_remaining INTEGER NOT NULL DEFAULT 0,
	recipients     TEXT NOT NULL DEFAULT '',
	detail         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_audit_events_project ON audit_events(project_id);
CREATE INDEX IF NOT EXISTS idx_audit_events_time ON audit_events(event_time);
`

// SQLiteStore persists audit events in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the audit database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database %s: %w", path, err)
	}
	// Single writer; the daemon is the only process touching this file.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return &SQLiteStore{
		db:     db,
		logger: slog.Default().With("component", "audit.sqlite"),
	}, nil
}

// Record appends one event.
func (s *SQLiteStore) Record(ctx context.Context, event *Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, event_time, kind, project_id, bucket, days_remaining, recipients, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Time.UTC().UnixNano(),
		string(event.Kind),
		event.ProjectID,
		event.Bucket,
		event.DaysRemaining,
		strings.Join(event.Recipients, ","),
		event.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

// Find returns matching events, newest first.
func (s *SQLiteStore) Find(ctx context.Context, query *Query) ([]*Event, error) {
	where, args := buildWhere(query)
	q := "SELECT id, event_time, kind, project_id, bucket, days_remaining, recipients, detail FROM audit_events" +
		where + " ORDER BY event_time DESC"
	if query != nil && query.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", query.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		var e Event
		var kind, recipients string
		var eventTime int64
		if err := rows.Scan(&e.ID, &eventTime, &kind, &e.ProjectID, &e.Bucket, &e.DaysRemaining, &recipients, &e.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		e.Kind = Kind(kind)
		e.Time = time.Unix(0, eventTime).UTC()
		if recipients != "" {
			e.Recipients = strings.Split(recipients, ",")
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Count returns the number of matching events.
func (s *SQLiteStore) Count(ctx context.Context, query *Query) (int64, error) {
	where, args := buildWhere(query)
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_events"+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit events: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// buildWhere translates a Query into a WHERE clause and argument list.
func buildWhere(query *Query) (string, []any) {
	if query == nil {
		return "", nil
	}
	var conds []string
	var args []any
	if query.ProjectID != "" {
		conds = append(conds, "project_id = ?")
		args = append(args, query.ProjectID)
	}
	if query.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(query.Kind))
	}
	if !query.Since.IsZero() {
		conds = append(conds, "event_time >= ?")
		args = append(args, query.Since.UTC().UnixNano())
	}
	if !query.Until.IsZero() {
		conds = append(conds, "event_time < ?")
		args = append(args, query.Until.UTC().UnixNano())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
