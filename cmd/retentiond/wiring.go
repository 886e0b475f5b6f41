package main

import (
	"fmt"

	"cccb/retentiond/pkg/audit"
	"cccb/retentiond/pkg/cli"
	"cccb/retentiond/pkg/config"
	"cccb/retentiond/pkg/ledger"
	"cccb/retentiond/pkg/notify"
	"cccb/retentiond/pkg/telemetry/logging"
	"cccb/retentiond/pkg/tracking"
)

// setup loads the configuration and installs the logger. Every command
// calls it first.
func setup() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	logCfg := logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	if _, err := logging.Setup(logCfg); err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return cfg, nil
}

// buildStore creates the ledger store from the configuration.
func buildStore(cfg *config.Config) *ledger.Store {
	return ledger.NewStore(ledger.StoreConfig{
		Path:        cfg.Ledger.Path,
		BackupPaths: cfg.Ledger.BackupPaths,
		DateLayout:  cfg.Ledger.DateFormat,
		LockTimeout: cfg.Ledger.LockTimeout,
	})
}

// buildTracker creates the upsert service.
func buildTracker(cfg *config.Config) *tracking.Service {
	return tracking.NewService(buildStore(cfg), cfg.Retention.PeriodDays)
}

// buildNotifier assembles the SMTP mailer, size estimator, command log,
// and audit trail into a notifier. The returned cleanup closes the audit
// store.
func buildNotifier(cfg *config.Config) (*notify.Notifier, func(), error) {
	transport, err := notify.NewSMTPTransport(cfg.Email.SMTPServer, cfg.Email.SMTPPort, cfg.Email.From)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create SMTP transport: %w", err)
	}
	mailer := notify.NewMailer(transport, notify.RetryPolicy{
		MaxAttempts: cfg.Email.Retry.MaxAttempts,
		Delay:       cfg.Email.Retry.Delay,
		Multiplier:  cfg.Email.Retry.Multiplier,
		MaxDelay:    cfg.Email.Retry.MaxDelay,
	})

	sizer := notify.NewGSUtilSizer(cfg.Cleanup.GSUtilBinary, cfg.Cleanup.SizerTimeout)
	cmdlog := notify.NewCommandLog(cfg.Cleanup.CommandLog)

	var trail audit.Store
	cleanup := func() {}
	if cfg.Audit.Enabled {
		if cfg.Audit.SQLitePath != "" {
			store, err := audit.NewSQLiteStore(cfg.Audit.SQLitePath)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open audit store: %w", err)
			}
			trail = store
			cleanup = func() { store.Close() }
		} else {
			trail = audit.NewMemoryStore()
		}
	}

	notifier := notify.New(mailer, sizer, cmdlog, trail, notify.Config{
		ClientSubject:         cfg.Email.ClientSubject,
		InternalSubject:       cfg.Email.InternalSubject,
		InternalList:          cfg.Email.InternalList,
		DownloadSite:          cfg.Email.DownloadSite,
		StorageCostPerGBMonth: cfg.Cleanup.StorageCostPerGBMonth,
	})
	return notifier, cleanup, nil
}
