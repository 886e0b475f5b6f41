package config

import "time"

// Config is the root configuration for the retention daemon.
type Config struct {
	// Ledger configures the retention ledger files.
	Ledger LedgerConfig `yaml:"ledger"`

	// Retention configures the retention policy and scan schedule.
	Retention RetentionConfig `yaml:"retention"`

	// Email configures notification delivery.
	Email EmailConfig `yaml:"email"`

	// Cleanup configures the deletion command log and cost estimation.
	Cleanup CleanupConfig `yaml:"cleanup"`

	// Audit configures the notification audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LedgerConfig locates the retention ledger and its replicas.
type LedgerConfig struct {
	// Path is the primary ledger file.
	Path string `yaml:"data_retention_db"`

	// BackupPaths are replica ledgers checked for divergence before every
	// scan. May be empty.
	BackupPaths []string `yaml:"backup_db_list"`

	// DateFormat is the Go reference layout for target dates in the
	// ledger, e.g. "01/02/2006".
	DateFormat string `yaml:"date_format"`

	// WatchForChanges reloads the ledger when the file changes on disk
	// while the daemon is running.
	WatchForChanges bool `yaml:"watch_for_changes"`

	// LockTimeout bounds waiting for the ledger file lock.
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

// RetentionConfig sets the retention policy.
type RetentionConfig struct {
	// PeriodDays is the number of days a newly delivered project is
	// retained before deletion.
	PeriodDays int `yaml:"retention_period"`

	// ReminderDays are the days-before-expiration checkpoints at which a
	// reminder email is sent.
	ReminderDays []int `yaml:"reminder_intervals"`

	// ScanSchedule is the cron expression for daemon-mode scans.
	ScanSchedule string `yaml:"scan_schedule"`
}

// EmailConfig configures SMTP delivery and message addressing.
type EmailConfig struct {
	// SMTPServer is the relay hostname.
	SMTPServer string `yaml:"smtp_server"`

	// SMTPPort is the relay port.
	SMTPPort int `yaml:"smtp_port"`

	// From is the sender address on outgoing mail.
	From string `yaml:"from_address"`

	// ClientSubject is the subject line of reminder emails to clients.
	ClientSubject string `yaml:"client_notification_subject"`

	// InternalSubject is the subject line of deletion notices to staff.
	InternalSubject string `yaml:"internal_notification_subject"`

	// InternalList receives deletion notices.
	InternalList []string `yaml:"internal_notification_list"`

	// DownloadSite is the URL clients use to fetch their data, embedded
	// in reminder emails.
	DownloadSite string `yaml:"download_site"`

	// Retry bounds delivery retries.
	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig bounds notification delivery retries.
type RetryConfig struct {
	// MaxAttempts is the total number of delivery attempts.
	MaxAttempts int `yaml:"max_attempts"`

	// Delay is the wait after a failed attempt.
	Delay time.Duration `yaml:"delay"`

	// Multiplier scales the delay after each failure; 1.0 keeps it
	// constant.
	Multiplier float64 `yaml:"multiplier"`

	// MaxDelay caps backoff growth when Multiplier > 1.
	MaxDelay time.Duration `yaml:"max_delay"`
}

// CleanupConfig configures deletion-marking and cost estimation.
type CleanupConfig struct {
	// CommandLog is the shell script file where cleanup commands
	// accumulate for operator review.
	CommandLog string `yaml:"data_cleanup_command_log"`

	// StorageCostPerGBMonth prices retained data for reminder emails.
	StorageCostPerGBMonth float64 `yaml:"storage_cost"`

	// GSUtilBinary is the gsutil executable used for size estimates.
	GSUtilBinary string `yaml:"gsutil_binary"`

	// SizerTimeout bounds one size-estimate subprocess.
	SizerTimeout time.Duration `yaml:"sizer_timeout"`
}

// AuditConfig configures the notification audit trail.
type AuditConfig struct {
	// Enabled turns audit recording on.
	Enabled bool `yaml:"enabled"`

	// SQLitePath is the audit database file. Empty with Enabled true
	// keeps events in memory only.
	SQLitePath string `yaml:"sqlite_path"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`

	// AddSource includes file:line in every record.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled starts the metrics HTTP listener in daemon mode.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the metrics listener address, e.g. ":9090".
	ListenAddress string `yaml:"listen_address"`

	// Path is the scrape path.
	Path string `yaml:"path"`
}
