// Package metrics exposes Prometheus instrumentation for the retention
// daemon: scan outcomes, notification counts, and ledger activity.
//
// All metrics live under the "retentiond" namespace and are registered on
// a private registry, exposed over HTTP via Collector.Handler.
package metrics
