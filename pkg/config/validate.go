package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for consistency. It expects defaults
// to have been applied already.
func Validate(cfg *Config) error {
	if err := validateLedger(&cfg.Ledger); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	if err := validateRetention(&cfg.Retention); err != nil {
		return fmt.Errorf("retention: %w", err)
	}
	if err := validateEmail(&cfg.Email); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	if err := validateCleanup(&cfg.Cleanup); err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

func validateLedger(cfg *LedgerConfig) error {
	if cfg.Path == "" {
		return fmt.Errorf("data_retention_db must be set")
	}
	for i, backup := range cfg.BackupPaths {
		if backup == "" {
			return fmt.Errorf("backup_db_list entry %d is empty", i)
		}
		if backup == cfg.Path {
			return fmt.Errorf("backup_db_list entry %d is the primary ledger %q", i, cfg.Path)
		}
	}
	if err := validateDateLayout(cfg.DateFormat); err != nil {
		return fmt.Errorf("date_format: %w", err)
	}
	if cfg.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive, got %v", cfg.LockTimeout)
	}
	return nil
}

// validateDateLayout checks the layout round-trips a known date. A layout
// with no day or year component would silently collapse distinct dates.
func validateDateLayout(layout string) error {
	if layout == "" {
		return fmt.Errorf("must be set")
	}
	ref := time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC)
	parsed, err := time.Parse(layout, ref.Format(layout))
	if err != nil {
		return fmt.Errorf("layout %q does not parse its own output: %w", layout, err)
	}
	if !parsed.Equal(ref) {
		return fmt.Errorf("layout %q loses date information (2006-01-02 round-trips to %v)", layout, parsed)
	}
	return nil
}

func validateRetention(cfg *RetentionConfig) error {
	if cfg.PeriodDays <= 0 {
		return fmt.Errorf("retention_period must be positive, got %d", cfg.PeriodDays)
	}
	if len(cfg.ReminderDays) == 0 {
		return fmt.Errorf("reminder_intervals must not be empty")
	}
	seen := make(map[int]bool, len(cfg.ReminderDays))
	for _, days := range cfg.ReminderDays {
		if days <= 0 {
			return fmt.Errorf("reminder_intervals must be positive, got %d", days)
		}
		if seen[days] {
			return fmt.Errorf("reminder_intervals contains %d twice", days)
		}
		seen[days] = true
	}
	if _, err := cron.ParseStandard(cfg.ScanSchedule); err != nil {
		return fmt.Errorf("scan_schedule %q: %w", cfg.ScanSchedule, err)
	}
	return nil
}

func validateEmail(cfg *EmailConfig) error {
	if cfg.SMTPServer == "" {
		return fmt.Errorf("smtp_server must be set")
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		return fmt.Errorf("smtp_port must be 1-65535, got %d", cfg.SMTPPort)
	}
	if cfg.From == "" {
		return fmt.Errorf("from_address must be set")
	}
	if cfg.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.Delay < 0 {
		return fmt.Errorf("retry.delay must not be negative, got %v", cfg.Retry.Delay)
	}
	if cfg.Retry.Multiplier < 1.0 {
		return fmt.Errorf("retry.multiplier must be at least 1.0, got %v", cfg.Retry.Multiplier)
	}
	if cfg.Retry.Multiplier > 1.0 && cfg.Retry.MaxDelay <= 0 {
		return fmt.Errorf("retry.max_delay must be set when multiplier > 1.0")
	}
	return nil
}

func validateCleanup(cfg *CleanupConfig) error {
	if cfg.CommandLog == "" {
		return fmt.Errorf("data_cleanup_command_log must be set")
	}
	if cfg.StorageCostPerGBMonth < 0 {
		return fmt.Errorf("storage_cost must not be negative, got %v", cfg.StorageCostPerGBMonth)
	}
	if cfg.SizerTimeout <= 0 {
		return fmt.Errorf("sizer_timeout must be positive, got %v", cfg.SizerTimeout)
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", cfg.Logging.Format)
	}
	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		return fmt.Errorf("metrics.listen_address must be set when metrics are enabled")
	}
	return nil
}
