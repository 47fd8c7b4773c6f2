// Package metrics defines and registers all custom Prometheus metrics for the
// course marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// through promauto; importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Purchase metrics ──────────────────────────────────────────────────────────

// PurchasesTotal counts purchase attempts by outcome.
// Labels:
//   - strategy: "free" or "balance"
//   - result: "success", "already_purchased", "insufficient_balance", "in_progress" or "error"
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of purchase attempts, by strategy and result.",
	},
	[]string{"strategy", "result"},
)

// PurchaseRevenueTotal sums the balance debited by successful paid purchases.
var PurchaseRevenueTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchase_revenue_total",
		Help:      "Total balance debited by successful purchases.",
	},
)

// ── Progress metrics ──────────────────────────────────────────────────────────

// ModulesCompletedTotal counts first-time module completions.
var ModulesCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "modules_completed_total",
		Help:      "Total number of module completion requests that succeeded.",
	},
)

// CertificatesIssuedTotal counts certificates handed out.
var CertificatesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certificates_issued_total",
		Help:      "Total number of course certificates issued.",
	},
)

// ── Activity log metrics ──────────────────────────────────────────────────────

// ActivityEventsTotal counts activity log writes.
// Label:
//   - result: "stored", "failed" or "dropped" (queue full)
var ActivityEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_total",
		Help:      "Total number of activity events handled, by result.",
	},
	[]string{"result"},
)

// ActivityQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityWriteDuration measures how long a single activity insert takes.
var ActivityWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_write_duration_seconds",
		Help:      "Duration of activity log inserts.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users.",
	},
)
