// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec

	// Trending scan metrics
	TrendingScansTotal  *prometheus.CounterVec
	TrendingScanSeconds prometheus.Histogram
	BlocksSkipped       prometheus.Counter
	CandidatesDiscarded *prometheus.CounterVec

	// Wallet metrics
	WalletsCreated      prometheus.Counter
	BalanceEntrySkipped prometheus.Counter
	HistoryTxSkipped    *prometheus.CounterVec

	// Provisioning metrics
	ProvisioningOutcomes *prometheus.CounterVec
	ProvisioningSeconds  prometheus.Histogram

	// HTTP metrics
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_wallet_backend"
	}

	return &Metrics{
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		TrendingScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trending",
			Name:      "scans_total",
			Help:      "Total number of trending scans by status",
		}, []string{"status"}),
		TrendingScanSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trending",
			Name:      "scan_duration_seconds",
			Help:      "Trending scan duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
		BlocksSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trending",
			Name:      "blocks_skipped_total",
			Help:      "Total number of unavailable blocks skipped during scans",
		}),
		CandidatesDiscarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trending",
			Name:      "candidates_discarded_total",
			Help:      "Total number of candidate addresses discarded by reason",
		}, []string{"reason"}),

		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "created_total",
			Help:      "Total number of wallets created",
		}),
		BalanceEntrySkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "balance_entries_skipped_total",
			Help:      "Total number of malformed token account entries skipped",
		}),
		HistoryTxSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "history_transactions_skipped_total",
			Help:      "Total number of unresolvable or unclassifiable transactions skipped by reason",
		}, []string{"reason"}),

		ProvisioningOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provisioning",
			Name:      "outcomes_total",
			Help:      "Total number of provisioning flows by terminal state",
		}, []string{"state"}),
		ProvisioningSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provisioning",
			Name:      "duration_seconds",
			Help:      "Provisioning flow duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRPCLatency records Solana RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordTrendingScan records a finished trending scan.
func RecordTrendingScan(status string, seconds float64) {
	DefaultMetrics.TrendingScansTotal.WithLabelValues(status).Inc()
	DefaultMetrics.TrendingScanSeconds.Observe(seconds)
}

// RecordBlockSkipped increments the skipped block counter.
func RecordBlockSkipped() {
	DefaultMetrics.BlocksSkipped.Inc()
}

// RecordCandidateDiscarded increments the discarded candidate counter.
func RecordCandidateDiscarded(reason string) {
	DefaultMetrics.CandidatesDiscarded.WithLabelValues(reason).Inc()
}

// RecordWalletCreated increments the wallets created counter.
func RecordWalletCreated() {
	DefaultMetrics.WalletsCreated.Inc()
}

// RecordBalanceEntrySkipped increments the malformed entry counter.
func RecordBalanceEntrySkipped() {
	DefaultMetrics.BalanceEntrySkipped.Inc()
}

// RecordHistoryTxSkipped increments the skipped transaction counter.
func RecordHistoryTxSkipped(reason string) {
	DefaultMetrics.HistoryTxSkipped.WithLabelValues(reason).Inc()
}

// RecordProvisioningOutcome records a provisioning flow terminal state.
func RecordProvisioningOutcome(state string, seconds float64) {
	DefaultMetrics.ProvisioningOutcomes.WithLabelValues(state).Inc()
	DefaultMetrics.ProvisioningSeconds.Observe(seconds)
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(route, method, code string, seconds float64) {
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route, method, code).Observe(seconds)
}

// RecordDBQuery records database query duration and error status.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
