package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric the daemon records. Metrics are
// pre-allocated at construction; recording is a counter increment or a
// histogram observation, cheap enough to call from the scan loop.
type Collector struct {
	registry *prometheus.Registry

	remindersSent        *prometheus.CounterVec
	deletionsMarked      prometheus.Counter
	notificationFailures prometheus.Counter

	scansTotal     prometheus.Counter
	scanDuration   prometheus.Histogram
	trackedRecords prometheus.Gauge

	ledgerReloads prometheus.Counter
}

// NewCollector creates a collector backed by the given registry. If
// registry is nil a fresh private registry is used, keeping the daemon's
// metrics separate from anything else in the process.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		remindersSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "retentiond",
				Name:      "reminders_sent_total",
				Help:      "Expiration reminder emails sent, labeled by remaining days at send time",
			},
			[]string{"days_remaining"},
		),

		deletionsMarked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "retentiond",
				Name:      "deletions_marked_total",
				Help:      "Projects whose retention period ended and whose cleanup commands were logged",
			},
		),

		notificationFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "retentiond",
				Name:      "notification_failures_total",
				Help:      "Notifications that could not be delivered after exhausting retries",
			},
		),

		scansTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "retentiond",
				Name:      "scans_total",
				Help:      "Completed expiration scans",
			},
		),

		scanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "retentiond",
				Name:      "scan_duration_seconds",
				Help:      "Wall-clock duration of one expiration scan",
				Buckets:   []float64{0.01, 0.05, 0.25, 1, 5, 30, 120},
			},
		),

		trackedRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "retentiond",
				Name:      "tracked_records",
				Help:      "Retention records present in the ledger at the last scan",
			},
		),

		ledgerReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "retentiond",
				Name:      "ledger_reloads_total",
				Help:      "Ledger reloads triggered by filesystem change events",
			},
		),
	}

	registry.MustRegister(
		c.remindersSent,
		c.deletionsMarked,
		c.notificationFailures,
		c.scansTotal,
		c.scanDuration,
		c.trackedRecords,
		c.ledgerReloads,
	)

	return c
}

// ReminderSent records one reminder email, labeled by how many days
// remained until deletion. The label set is bounded by the configured
// reminder checkpoints, so cardinality stays small.
func (c *Collector) ReminderSent(daysRemaining int) {
	c.remindersSent.WithLabelValues(strconv.Itoa(daysRemaining)).Inc()
}

// DeletionMarked records one project marked for cleanup.
func (c *Collector) DeletionMarked() {
	c.deletionsMarked.Inc()
}

// NotificationFailed records one notification that could not be sent.
func (c *Collector) NotificationFailed() {
	c.notificationFailures.Inc()
}

// ScanCompleted records one finished scan: its duration and the number
// of ledger records it covered.
func (c *Collector) ScanCompleted(records int, duration time.Duration) {
	c.scansTotal.Inc()
	c.scanDuration.Observe(duration.Seconds())
	c.trackedRecords.Set(float64(records))
}

// LedgerReloaded records one reload prompted by an on-disk ledger change.
func (c *Collector) LedgerReloaded() {
	c.ledgerReloads.Inc()
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
