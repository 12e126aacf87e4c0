package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vicsurf_upstream_calls_total",
			Help: "Total calls to upstream data providers",
		},
		[]string{"source", "endpoint", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vicsurf_upstream_latency_seconds",
			Help:    "Upstream call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "endpoint"},
	)

	ReportsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vicsurf_reports_scored_total",
			Help: "Total forecast hours scored and stored",
		},
		[]string{"spot"},
	)

	ReportsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vicsurf_reports_rejected_total",
			Help: "Forecast hours skipped because the observation failed validation",
		},
		[]string{"spot"},
	)

	TideDays = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vicsurf_tide_days_total",
			Help: "Tide days stored, by source",
		},
		[]string{"source"},
	)

	LatestScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vicsurf_latest_surf_score",
			Help: "Most recent surf score per spot",
		},
		[]string{"spot"},
	)

	ReportsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vicsurf_reports_published_total",
			Help: "Surf reports published to the message bus",
		},
		[]string{"status"},
	)
)
