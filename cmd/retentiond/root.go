package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cccb/retentiond/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "retentiond",
	Short: "Retention lifecycle tracker for delivered sequencing data",
	Long: `Retentiond tracks how long delivered sequencing datasets stay in their
cloud buckets before deletion.

It keeps a flat-file ledger of project -> (bucket, client emails, deletion
date), checks backup copies of the ledger for divergence, emails clients at
configured checkpoints before their data expires, and appends the cleanup
commands for expired projects to a log for an operator to run.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, mapping errors to process exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "/etc/retentiond/config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
