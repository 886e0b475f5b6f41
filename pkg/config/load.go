package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML configuration file, applies defaults, and
// validates the result. Environment overrides are not applied; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file, then
// applies RETENTIOND_SECTION_FIELD environment overrides (e.g.
// RETENTIOND_EMAIL_SMTP_SERVER). Environment values always win over the
// file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Ledger
	if val := os.Getenv("RETENTIOND_LEDGER_PATH"); val != "" {
		cfg.Ledger.Path = val
	}
	if val := os.Getenv("RETENTIOND_LEDGER_BACKUP_PATHS"); val != "" {
		cfg.Ledger.BackupPaths = splitList(val)
	}
	if val := os.Getenv("RETENTIOND_LEDGER_DATE_FORMAT"); val != "" {
		cfg.Ledger.DateFormat = val
	}
	if val := os.Getenv("RETENTIOND_LEDGER_WATCH_FOR_CHANGES"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Ledger.WatchForChanges = b
		}
	}

	// Retention
	if val := os.Getenv("RETENTIOND_RETENTION_PERIOD"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retention.PeriodDays = i
		}
	}
	if val := os.Getenv("RETENTIOND_RETENTION_REMINDER_INTERVALS"); val != "" {
		if days, err := parseIntList(val); err == nil {
			cfg.Retention.ReminderDays = days
		}
	}
	if val := os.Getenv("RETENTIOND_RETENTION_SCAN_SCHEDULE"); val != "" {
		cfg.Retention.ScanSchedule = val
	}

	// Email
	if val := os.Getenv("RETENTIOND_EMAIL_SMTP_SERVER"); val != "" {
		cfg.Email.SMTPServer = val
	}
	if val := os.Getenv("RETENTIOND_EMAIL_SMTP_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Email.SMTPPort = i
		}
	}
	if val := os.Getenv("RETENTIOND_EMAIL_FROM_ADDRESS"); val != "" {
		cfg.Email.From = val
	}
	if val := os.Getenv("RETENTIOND_EMAIL_INTERNAL_LIST"); val != "" {
		cfg.Email.InternalList = splitList(val)
	}
	if val := os.Getenv("RETENTIOND_EMAIL_DOWNLOAD_SITE"); val != "" {
		cfg.Email.DownloadSite = val
	}
	if val := os.Getenv("RETENTIOND_EMAIL_RETRY_MAX_ATTEMPTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Email.Retry.MaxAttempts = i
		}
	}
	if val := os.Getenv("RETENTIOND_EMAIL_RETRY_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Email.Retry.Delay = d
		}
	}

	// Cleanup
	if val := os.Getenv("RETENTIOND_CLEANUP_COMMAND_LOG"); val != "" {
		cfg.Cleanup.CommandLog = val
	}
	if val := os.Getenv("RETENTIOND_CLEANUP_STORAGE_COST"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Cleanup.StorageCostPerGBMonth = f
		}
	}

	// Audit
	if val := os.Getenv("RETENTIOND_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("RETENTIOND_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLitePath = val
	}

	// Telemetry
	if val := os.Getenv("RETENTIOND_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("RETENTIOND_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("RETENTIOND_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("RETENTIOND_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}

// splitList parses a comma-separated environment value into a slice,
// dropping empty elements.
func splitList(val string) []string {
	var out []string
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseIntList parses a comma-separated list of integers.
func parseIntList(val string) ([]int, error) {
	items := splitList(val)
	out := make([]int, 0, len(items))
	for _, item := range items {
		i, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", item, err)
		}
		out = append(out, i)
	}
	return out, nil
}
