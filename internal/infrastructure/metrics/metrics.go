package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersCompleted prometheus.Counter
	TransferErrors     *prometheus.CounterVec
	TransferRetries    prometheus.Counter
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram

	// Account metrics
	AccountsOpened       prometheus.Counter
	AccountStatusChanges *prometheus.CounterVec

	// Ledger metrics
	TransactionStatusChanges *prometheus.CounterVec
	LedgerChecks             *prometheus.CounterVec

	// Notification metrics
	NotificationsPublished prometheus.Counter
	NotificationsDropped   prometheus.Counter
	NotificationsFailed    prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Redis metrics
	IdempotencyReplays prometheus.Counter
	RedisErrors        *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on reg.
// A nil reg registers on the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Transfer metrics
		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "demobank_transfers_completed_total",
			Help: "Total number of committed transfers",
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demobank_transfer_errors_total",
				Help: "Total number of rejected or failed transfers by error code",
			},
			[]string{"code"},
		),
		TransferRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "demobank_transfer_retries_total",
			Help: "Total number of transfer attempts repeated after a concurrent modification",
		}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "demobank_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "demobank_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Account metrics
		AccountsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "demobank_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		AccountStatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demobank_account_status_changes_total",
				Help: "Total account status changes by new status",
			},
			[]string{"status"},
		),

		// Ledger metrics
		TransactionStatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demobank_transaction_status_changes_total",
				Help: "Total ledger entry status transitions by new status",
			},
			[]string{"status"},
		),
		LedgerChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demobank_ledger_checks_total",
				Help: "Total ledger consistency checks by result",
			},
			[]string{"result"},
		),

		// Notification metrics
		NotificationsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "demobank_notifications_published_total",
			Help: "Total notifications handed to the publisher",
		}),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "demobank_notifications_dropped_total",
			Help: "Total notifications dropped because the queue was full",
		}),
		NotificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "demobank_notifications_failed_total",
			Help: "Total notifications the publisher failed to deliver",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demobank_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "demobank_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Redis metrics
		IdempotencyReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "demobank_idempotency_replays_total",
			Help: "Total requests answered from a stored idempotent response",
		}),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demobank_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demobank_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demobank_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"path"},
		),
	}
}
