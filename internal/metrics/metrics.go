package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts admin API requests by method and HTTP status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keycloak_admin_requests_total",
		Help: "Total number of Keycloak admin API requests",
	}, []string{"method", "status"})

	// ErrorsTotal counts failed admin API calls by method and failure kind
	// (credentials, transport, http).
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keycloak_admin_errors_total",
		Help: "Total number of failed Keycloak admin API calls",
	}, []string{"method", "reason"})

	// RequestDuration observes admin API request latency by method.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "keycloak_admin_request_duration_seconds",
		Help:    "Keycloak admin API request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)
