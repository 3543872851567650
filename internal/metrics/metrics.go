// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dairydash_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dairydash_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dairydash_jobs_total",
			Help: "Background jobs run, by job name and result",
		},
		[]string{"job", "result"},
	)

	LedgerWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dairydash_ledger_writes_total",
			Help: "Delivery ledger writes by resulting status",
		},
		[]string{"status"},
	)

	VoiceIntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dairydash_voice_intents_total",
			Help: "Voice commands by decoded intent",
		},
		[]string{"intent"},
	)
)
