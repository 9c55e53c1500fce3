package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExternalCallsTotal tracks outbound calls per upstream service
	ExternalCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftd_external_calls_total",
			Help: "Total number of outbound calls to external services",
		},
		[]string{"service"},
	)

	// ExternalErrorsTotal tracks outbound call failures per service and error code
	ExternalErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftd_external_errors_total",
			Help: "Total number of failed outbound calls",
		},
		[]string{"service", "code"},
	)

	// ExternalCallLatency tracks outbound call latency
	ExternalCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "craftd_external_call_latency_seconds",
			Help:    "Outbound call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	// RetriesTotal tracks retry attempts beyond the first, per service
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftd_retries_total",
			Help: "Total number of retry attempts",
		},
		[]string{"service"},
	)

	// AdmissionDecisions tracks admission controller outcomes per tier
	AdmissionDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftd_admission_decisions_total",
			Help: "Admission decisions by outcome",
		},
		[]string{"tier", "decision"},
	)

	// CacheHits tracks result cache hits per store backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftd_cache_hits_total",
			Help: "Result cache hits",
		},
		[]string{"backend"},
	)

	// CacheMisses tracks result cache misses per store backend
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftd_cache_misses_total",
			Help: "Result cache misses",
		},
		[]string{"backend"},
	)

	// HTTPRequestsTotal tracks API requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftd_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	// DBConnectionPoolUsage tracks database pool utilization percentage
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "craftd_db_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
