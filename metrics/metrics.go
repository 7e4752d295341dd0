package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_requests_total",
			Help: "Total number of requests by endpoint and status code",
		},
		[]string{"endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "advisor_request_duration_seconds",
			Help: "Duration of request processing in seconds",
		},
		[]string{"endpoint"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_validation_failures_total",
			Help: "Total number of schema validation failures by document",
		},
		[]string{"document"},
	)

	ModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_model_calls_total",
			Help: "Total number of model calls by outcome",
		},
		[]string{"outcome"},
	)

	ModelLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "advisor_model_latency_seconds",
			Help: "Latency of model calls in seconds",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_cache_lookups_total",
			Help: "Cache lookups by result",
		},
		[]string{"result"},
	)
)
