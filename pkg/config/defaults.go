package config

import "time"

// Default values applied to fields left unset in the configuration file.
const (
	// DefaultDateFormat is the ledger date layout (MM/DD/YYYY).
	DefaultDateFormat = "01/02/2006"

	// DefaultRetentionPeriodDays is how long delivered data is kept.
	DefaultRetentionPeriodDays = 30

	// DefaultScanSchedule runs one scan every morning.
	DefaultScanSchedule = "0 6 * * *"

	// DefaultSMTPPort is the unauthenticated relay port.
	DefaultSMTPPort = 25

	// DefaultRetryAttempts and DefaultRetryDelay match the long-standing
	// fixed-count delivery retry.
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 5 * time.Second

	// DefaultLockTimeout bounds waiting for the ledger file lock.
	DefaultLockTimeout = 30 * time.Second

	// DefaultSizerTimeout bounds one gsutil du invocation.
	DefaultSizerTimeout = 2 * time.Minute

	// DefaultMetricsAddress and DefaultMetricsPath locate the scrape
	// endpoint.
	DefaultMetricsAddress = ":9090"
	DefaultMetricsPath    = "/metrics"
)

// DefaultReminderDays are the days-before-expiration checkpoints used
// when the file sets none.
var DefaultReminderDays = []int{14, 7, 3}

// ApplyDefaults fills in zero-valued fields. Called by LoadConfig before
// validation; exported so tests can build configurations by hand.
func ApplyDefaults(cfg *Config) {
	if cfg.Ledger.DateFormat == "" {
		cfg.Ledger.DateFormat = DefaultDateFormat
	}
	if cfg.Ledger.LockTimeout <= 0 {
		cfg.Ledger.LockTimeout = DefaultLockTimeout
	}

	if cfg.Retention.PeriodDays == 0 {
		cfg.Retention.PeriodDays = DefaultRetentionPeriodDays
	}
	if len(cfg.Retention.ReminderDays) == 0 {
		cfg.Retention.ReminderDays = append([]int(nil), DefaultReminderDays...)
	}
	if cfg.Retention.ScanSchedule == "" {
		cfg.Retention.ScanSchedule = DefaultScanSchedule
	}

	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = DefaultSMTPPort
	}
	if cfg.Email.ClientSubject == "" {
		cfg.Email.ClientSubject = "Your sequencing data will be deleted soon"
	}
	if cfg.Email.InternalSubject == "" {
		cfg.Email.InternalSubject = "Sequencing data ready for cleanup"
	}
	if cfg.Email.Retry.MaxAttempts == 0 {
		cfg.Email.Retry.MaxAttempts = DefaultRetryAttempts
	}
	if cfg.Email.Retry.Delay == 0 {
		cfg.Email.Retry.Delay = DefaultRetryDelay
	}
	if cfg.Email.Retry.Multiplier == 0 {
		cfg.Email.Retry.Multiplier = 1.0
	}

	if cfg.Cleanup.GSUtilBinary == "" {
		cfg.Cleanup.GSUtilBinary = "gsutil"
	}
	if cfg.Cleanup.SizerTimeout <= 0 {
		cfg.Cleanup.SizerTimeout = DefaultSizerTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "text"
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
