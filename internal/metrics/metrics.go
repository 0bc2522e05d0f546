// Package metrics exposes Prometheus collectors for the crawl pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	crawlPagesTotal       *prometheus.CounterVec
	crawlListingsTotal    *prometheus.CounterVec
	crawlNullFieldsTotal  *prometheus.CounterVec
	crawlRunsTotal        *prometheus.CounterVec
	crawlRunSeconds       prometheus.Histogram
	crawlFetchSeconds     prometheus.Histogram
	crawlThrottleSeconds  prometheus.Histogram
	storeRowsWrittenTotal prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus collectors. It is safe to call multiple
// times.
func Init() {
	once.Do(func() {
		crawlPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_crawl_pages_total",
				Help: "Total pages processed, labeled by layout generation.",
			},
			[]string{"layout"},
		)

		crawlListingsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_crawl_listings_total",
				Help: "Total listings extracted, labeled by layout generation.",
			},
			[]string{"layout"},
		)

		crawlNullFieldsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_crawl_null_fields_total",
				Help: "Total normalized fields that ended up null, labeled by field.",
			},
			[]string{"field"},
		)

		crawlRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_crawl_runs_total",
				Help: "Total crawl runs, labeled by terminal outcome.",
			},
			[]string{"outcome"},
		)

		crawlRunSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_crawl_run_duration_seconds",
				Help:    "Histogram of whole-run durations.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
			},
		)

		crawlFetchSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_crawl_fetch_duration_seconds",
				Help:    "Histogram of single-page fetch latencies.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		)

		crawlThrottleSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_crawl_throttle_delay_seconds",
				Help:    "Histogram of delays introduced by the politeness rate limiter.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		)

		storeRowsWrittenTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_store_rows_written_total",
				Help: "Total product rows written by full-replace store writes.",
			},
		)
	})
}

// ObservePage records one processed page and the listings it yielded.
func ObservePage(layout string, listings int, fetchDuration time.Duration) {
	if crawlPagesTotal == nil {
		return
	}
	crawlPagesTotal.WithLabelValues(layout).Inc()
	crawlListingsTotal.WithLabelValues(layout).Add(float64(listings))
	crawlFetchSeconds.Observe(fetchDuration.Seconds())
}

// IncNullField records one normalized field that came out null.
func IncNullField(field string) {
	if crawlNullFieldsTotal == nil {
		return
	}
	crawlNullFieldsTotal.WithLabelValues(field).Inc()
}

// ObserveThrottleDelay records time spent waiting on the politeness limiter.
func ObserveThrottleDelay(delay time.Duration) {
	if crawlThrottleSeconds == nil {
		return
	}
	crawlThrottleSeconds.Observe(delay.Seconds())
}

// ObserveRun records a completed run and its terminal outcome.
func ObserveRun(outcome string, duration time.Duration) {
	if crawlRunsTotal == nil {
		return
	}
	crawlRunsTotal.WithLabelValues(outcome).Inc()
	crawlRunSeconds.Observe(duration.Seconds())
}

// AddRowsWritten records rows landed by a store write.
func AddRowsWritten(n int) {
	if storeRowsWrittenTotal == nil {
		return
	}
	storeRowsWrittenTotal.Add(float64(n))
}

// Handler returns the HTTP handler serving the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
