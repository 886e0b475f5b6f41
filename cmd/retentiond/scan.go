package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cccb/retentiond/pkg/cli"
	"cccb/retentiond/pkg/scanner"
)

var scanFlags struct {
	reminders []string
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one expiration scan over the retention ledger",
	Long: `Run one pass over the retention ledger: verify the backup copies match
the primary, then for every record compute the days until its deletion
date. Records at a configured reminder checkpoint get a reminder email to
their clients; records whose retention period has ended get their cleanup
commands appended to the command log and a notice sent to the internal
list.

Notification delivery failures are logged and do not fail the scan; parse
errors, replica divergence, and schedule errors do.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVar(&scanFlags.reminders, "reminders", nil, "override reminder thresholds, e.g. --reminders 14,7,3")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	reminderDays := cfg.Retention.ReminderDays
	if len(scanFlags.reminders) > 0 {
		reminderDays, err = scanner.ParseReminderDays(scanFlags.reminders)
		if err != nil {
			return err
		}
	}

	notifier, cleanup, err := buildNotifier(cfg)
	if err != nil {
		return cli.NewCommandError("scan", err)
	}
	defer cleanup()

	s := scanner.New(buildStore(cfg), notifier, reminderDays)
	if err := s.Scan(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("Scan complete")
	return nil
}
