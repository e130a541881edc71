package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Document metrics
	DocumentsCreated  prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	TransitionErrors  *prometheus.CounterVec

	// Import metrics
	ImportsStarted   prometheus.Counter
	ImportRowsParsed *prometheus.CounterVec
	ImportDuration   prometheus.Histogram

	// Loan metrics
	LoansCreated     prometheus.Counter
	InstallmentsPaid prometheus.Counter
	PaymentsReversed prometheus.Counter
	EarlyPayoffs     prometheus.Counter

	// Notification metrics
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		DocumentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evraktakip_documents_created_total",
			Help: "Total number of documents created",
		}),
		StatusTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evraktakip_status_transitions_total",
				Help: "Document status transitions by source and target status",
			},
			[]string{"from", "to"},
		),
		TransitionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evraktakip_transition_errors_total",
				Help: "Rejected status transitions by reason",
			},
			[]string{"reason"},
		),
		ImportsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evraktakip_imports_started_total",
			Help: "Total number of spreadsheet imports started",
		}),
		ImportRowsParsed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evraktakip_import_rows_total",
				Help: "Imported rows by outcome",
			},
			[]string{"outcome"},
		),
		ImportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "evraktakip_import_duration_seconds",
			Help:    "Duration of spreadsheet import runs",
			Buckets: prometheus.DefBuckets,
		}),
		LoansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evraktakip_loans_created_total",
			Help: "Total number of loans created",
		}),
		InstallmentsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evraktakip_installments_paid_total",
			Help: "Total number of installment payments recorded",
		}),
		PaymentsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evraktakip_payments_reversed_total",
			Help: "Total number of installment payments reversed",
		}),
		EarlyPayoffs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evraktakip_early_payoffs_total",
			Help: "Total number of loans closed early",
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evraktakip_notifications_sent_total",
			Help: "Total number of notifications dispatched",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evraktakip_notifications_failed_total",
			Help: "Total number of notification dispatch failures",
		}),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evraktakip_http_requests_total",
				Help: "HTTP requests by method, path and status code",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evraktakip_http_request_duration_seconds",
				Help:    "HTTP request duration by method and path",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "evraktakip_db_connections",
			Help: "Current number of database connections",
		}),
	}
}
