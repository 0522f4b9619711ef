package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal *prometheus.CounterVec
	fetchErrors  *prometheus.CounterVec
	cacheHits    *prometheus.CounterVec
	scanDuration prometheus.Histogram
	scanPairs    prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "confluence_fetches_total",
				Help: "Total number of upstream series fetches",
			},
			[]string{"provider", "symbol"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "confluence_fetch_errors_total",
				Help: "Total number of upstream fetch errors",
			},
			[]string{"provider"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "confluence_cache_hits_total",
				Help: "Cache hits by kind (series, response)",
			},
			[]string{"kind"},
		),
		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "confluence_scan_duration_seconds",
				Help:    "Duration of full confluence scans in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		scanPairs: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "confluence_scan_pairs",
				Help: "Number of pairs in the last completed scan",
			},
		),
	}
}

// RecordFetch records one upstream series fetch.
func (r *Recorder) RecordFetch(provider, symbol string) {
	r.fetchesTotal.WithLabelValues(provider, symbol).Inc()
}

// RecordFetchError records an upstream fetch failure.
func (r *Recorder) RecordFetchError(provider string) {
	r.fetchErrors.WithLabelValues(provider).Inc()
}

// RecordCacheHit records a cache hit by kind.
func (r *Recorder) RecordCacheHit(kind string) {
	r.cacheHits.WithLabelValues(kind).Inc()
}

// RecordScanDuration records a full scan duration in seconds.
func (r *Recorder) RecordScanDuration(seconds float64) {
	r.scanDuration.Observe(seconds)
}

// RecordScanPairs records the pair count of the last scan.
func (r *Recorder) RecordScanPairs(n int) {
	r.scanPairs.Set(float64(n))
}
