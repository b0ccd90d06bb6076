package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LeadSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skinlab_lead_submissions_total",
		Help: "Lead form submissions by form and outcome",
	}, []string{"form", "outcome"})

	LeadPipelineSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skinlab_lead_pipeline_seconds",
		Help:    "Time spent processing one lead submission",
		Buckets: prometheus.DefBuckets,
	}, []string{"form"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skinlab_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skinlab_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skinlab_rate_limited_total",
		Help: "Requests refused by the per-client rate limiter",
	})
)
