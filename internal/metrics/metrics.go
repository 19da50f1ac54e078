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
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BreakdownComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "breakdown_computations_total",
			Help: "Fee breakdown computations by payment plan and cache outcome",
		},
		[]string{"plan", "cache"},
	)

	PartialApprovalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partial_approvals_total",
			Help: "Admin partial-payment approvals by outcome",
		},
		[]string{"approval_type", "outcome"},
	)
)
