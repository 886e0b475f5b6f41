package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// StoreConfig contains configuration for the file-backed ledger store.
type StoreConfig struct {
	// Path is the primary ledger file.
	Path string

	// BackupPaths are the backup ledger files checked for consistency
	// before any read is trusted. May be empty.
	BackupPaths []string

	// DateLayout is the Go time layout for the date field.
	// Example: "01/02/2006" for MM/DD/YYYY.
	DateLayout string

	// LockTimeout bounds how long a caller waits for the advisory file
	// lock before giving up.
	// Default: 30s
	LockTimeout time.Duration

	// LockRetryDelay is the polling interval while waiting for the lock.
	// Default: 250ms
	LockRetryDelay time.Duration
}

// Store mediates all access to the ledger files. The ledger itself is a
// shared resource across process invocations (tracker writer, scanner
// reader, overlapping cron ticks), so every read-modify-write cycle runs
// under an advisory file lock and every write is an atomic replace.
type Store struct {
	config StoreConfig
	lock   *flock.Flock
	logger *slog.Logger
}

// NewStore creates a ledger store over the configured primary and backups.
func NewStore(config StoreConfig) *Store {
	if config.LockTimeout <= 0 {
		config.LockTimeout = 30 * time.Second
	}
	if config.LockRetryDelay <= 0 {
		config.LockRetryDelay = 250 * time.Millisecond
	}
	return &Store{
		config: config,
		lock:   flock.New(config.Path + ".lock"),
		logger: slog.Default().With("component", "ledger.store"),
	}
}

// Path returns the primary ledger path.
func (s *Store) Path() string {
	return s.config.Path
}

// Load reads the primary ledger only, without consulting backups.
func (s *Store) Load(ctx context.Context) (Ledger, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return Load(s.config.Path, s.config.DateLayout)
}

// LoadConsistent loads the primary ledger and every backup, asserts they
// are semantically identical, and returns the shared contents. Any parse
// failure or divergence is fatal.
func (s *Store) LoadConsistent(ctx context.Context) (Ledger, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	primary, err := Load(s.config.Path, s.config.DateLayout)
	if err != nil {
		return nil, err
	}
	backups := make([]Replica, 0, len(s.config.BackupPaths))
	for _, path := range s.config.BackupPaths {
		contents, err := Load(path, s.config.DateLayout)
		if err != nil {
			return nil, err
		}
		backups = append(backups, Replica{Name: path, Contents: contents})
	}
	s.logger.Debug("loaded ledger replicas",
		"primary", s.config.Path,
		"backups", len(backups),
		"records", len(primary),
	)
	return EnsureConsistent(primary, backups)
}

// Update runs a read-modify-write cycle under the file lock: load the
// primary ledger, apply fn, and persist the result. If fn returns an error
// nothing is written and the ledger file is untouched.
func (s *Store) Update(ctx context.Context, fn func(Ledger) (Ledger, error)) (Ledger, error) {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := Load(s.config.Path, s.config.DateLayout)
	if err != nil {
		return nil, err
	}
	updated, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := Save(updated, s.config.Path, s.config.DateLayout); err != nil {
		return nil, err
	}
	s.logger.Info("ledger updated",
		"path", s.config.Path,
		"records", len(updated),
	)
	return updated, nil
}

// acquire takes the advisory lock, or fails once LockTimeout elapses.
func (s *Store) acquire(ctx context.Context) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.config.LockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(lockCtx, s.config.LockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock ledger %s: %w", s.config.Path, err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire ledger lock for %s within %s", s.config.Path, s.config.LockTimeout)
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release ledger lock", "error", err)
		}
	}, nil
}
