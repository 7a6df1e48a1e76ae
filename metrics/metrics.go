package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	RatingsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_ratings_submitted_total",
			Help: "Ratings submitted, by outcome (created, updated, deleted)",
		},
		[]string{"outcome"},
	)

	FavouriteToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_favourite_toggles_total",
			Help: "Favourite toggles, by outcome (added, removed)",
		},
		[]string{"outcome"},
	)

	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_log_write_failures_total",
			Help: "Audit log entries that could not be persisted",
		},
	)
)

func RecordRating(outcome string) {
	RatingsSubmitted.WithLabelValues(outcome).Inc()
}

func RecordFavourite(outcome string) {
	FavouriteToggles.WithLabelValues(outcome).Inc()
}

func RecordAuditFailure() {
	AuditWriteFailures.Inc()
}
