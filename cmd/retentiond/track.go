package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cccb/retentiond/pkg/cli"
	"cccb/retentiond/pkg/tracking"
)

var trackFlags struct {
	deliveriesFile string
}

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record newly delivered projects in the retention ledger",
	Long: `Record a batch of delivered projects in the retention ledger.

The deliveries file maps project IDs to the bucket the data was uploaded to
and the client emails to notify:

  abc:
    bucket: bucket-abc
    client_emails: [a@x.com, b@x.com]
  xyz:
    bucket: bucket-xyz
    client_emails: [c@y.com]

New projects get a deletion date of today plus the configured retention
period. Re-delivered projects keep their bucket and deletion date; their
client list is extended. A delivery that moves a project to a different
bucket rejects the whole batch and leaves the ledger untouched.`,
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().StringVarP(&trackFlags.deliveriesFile, "deliveries", "d", "", "YAML file of delivered projects (required)")
	trackCmd.MarkFlagRequired("deliveries")
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	deliveries, err := readDeliveries(trackFlags.deliveriesFile)
	if err != nil {
		return cli.NewCommandError("track", err)
	}
	if len(deliveries) == 0 {
		fmt.Println("No deliveries to record")
		return nil
	}

	service := buildTracker(cfg)
	if err := service.Track(cmd.Context(), deliveries); err != nil {
		return cli.NewCommandError("track", err)
	}

	fmt.Printf("Recorded %d delivered project(s) in %s\n", len(deliveries), cfg.Ledger.Path)
	return nil
}

func readDeliveries(path string) (map[string]tracking.Delivery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deliveries file %q: %w", path, err)
	}
	var deliveries map[string]tracking.Delivery
	if err := yaml.Unmarshal(data, &deliveries); err != nil {
		return nil, fmt.Errorf("failed to parse deliveries file %q: %w", path, err)
	}
	return deliveries, nil
}
