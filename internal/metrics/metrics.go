// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for blockview.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DocumentsProcessed *prometheus.CounterVec
	BlocksPerDocument  prometheus.Histogram
	PagesPerDocument   prometheus.Histogram

	MarkerSubmissionsTotal *prometheus.CounterVec
	CacheLookupsTotal      *prometheus.CounterVec

	ChatTurnsTotal      prometheus.Counter
	SpeechRequestsTotal prometheus.Counter

	SessionsLive prometheus.Gauge
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	m := &Metrics{}

	m.HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockview_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockview_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.DocumentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockview_documents_processed_total",
			Help: "Documents run through the extraction pipeline",
		},
		[]string{"outcome"},
	)
	m.BlocksPerDocument = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blockview_blocks_per_document",
			Help:    "Flattened block count per processed document",
			Buckets: prometheus.ExponentialBuckets(8, 2, 12),
		},
	)
	m.PagesPerDocument = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blockview_pages_per_document",
			Help:    "Page count per processed document",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	m.MarkerSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockview_marker_submissions_total",
			Help: "Submissions to the Marker extraction API",
		},
		[]string{"status"},
	)
	m.CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockview_cache_lookups_total",
			Help: "Extraction cache lookups",
		},
		[]string{"result"},
	)

	m.ChatTurnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockview_chat_turns_total",
			Help: "Chat turns answered",
		},
	)
	m.SpeechRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockview_speech_requests_total",
			Help: "Speech synthesis requests served",
		},
	)

	m.SessionsLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blockview_sessions_live",
			Help: "Document sessions currently held in memory",
		},
	)

	return m
}
