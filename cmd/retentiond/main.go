// Retentiond tracks the retention lifecycle of delivered sequencing
// datasets in cloud buckets.
//
// It maintains a flat-file ledger mapping project IDs to bucket, client
// emails, and deletion date, verifies backup copies of the ledger against
// the primary, reminds clients before their data expires, and appends
// cleanup commands to a log for an operator to review and run.
//
// Usage:
//
//	# Record newly delivered projects from a deliveries file
//	retentiond track --deliveries deliveries.yaml
//
//	# Run one expiration scan
//	retentiond scan
//
//	# Run as a daemon with cron-scheduled scans and a metrics endpoint
//	retentiond run
//
//	# Check the configuration and ledger replicas
//	retentiond validate
//
//	# Show version information
//	retentiond version
package main

func main() {
	Execute()
}
