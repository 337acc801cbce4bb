package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Admission
	TransactionsAdmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transactions_admitted_total",
			Help: "Transactions recorded and debited",
		},
	)
	TransactionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_rejected_total",
			Help: "Transactions refused at admission",
		},
		[]string{"reason"}, // invalid_request|account_not_found|insufficient_funds|duplicate_reference|persistence_failure
	)

	// Status resolution
	StatusLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_status_lookups_total",
			Help: "Resolved transaction statuses",
		},
		[]string{"channel", "status"},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
	EventsPublishFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "events_publish_failed_total",
			Help: "Domain events that could not be published",
		},
	)

	initOnce sync.Once
)

var Handler = promhttp.Handler

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestLatency,
			TransactionsAdmitted,
			TransactionsRejected,
			StatusLookups,
			WorkerQueueDepth,
			EventsPublishFailed,
		)
	})
}
