// Package metrics collects per-run counters and writes them in the
// Prometheus text format for the node_exporter textfile collector
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use as a nil pointer, every method is then a no-op
type Metrics struct {
	registry *prometheus.Registry

	entriesFetched  *prometheus.CounterVec
	entriesEligible *prometheus.CounterVec
	postsPublished  *prometheus.CounterVec
	postsSkipped    *prometheus.CounterVec
	watermark       prometheus.Gauge
	lastSuccess     prometheus.Gauge
	lastRunFailed   prometheus.Gauge
	runDuration     prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		entriesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feedtoot_entries_fetched_total",
			Help: "Entries found in the feed document",
		}, []string{"feed"}),
		entriesEligible: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feedtoot_entries_eligible_total",
			Help: "Entries newer than the watermark and not dated in the future",
		}, []string{"feed"}),
		postsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feedtoot_posts_published_total",
			Help: "Posts accepted by the network",
		}, []string{"feed"}),
		postsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feedtoot_posts_skipped_total",
			Help: "Posts not submitted because of a trial run",
		}, []string{"feed"}),
		watermark: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feedtoot_watermark_timestamp_seconds",
			Help: "Watermark after the run",
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feedtoot_last_success_timestamp_seconds",
			Help: "Time the last successful run finished",
		}),
		lastRunFailed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feedtoot_last_run_failed",
			Help: "1 if the run ended with an error",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feedtoot_run_duration_seconds",
			Help: "Wall time of the run",
		}),
	}
}

func (m *Metrics) Fetched(feed string, n int) {
	if m == nil {
		return
	}
	m.entriesFetched.WithLabelValues(feed).Add(float64(n))
}

func (m *Metrics) Eligible(feed string, n int) {
	if m == nil {
		return
	}
	m.entriesEligible.WithLabelValues(feed).Add(float64(n))
}

func (m *Metrics) Published(feed string) {
	if m == nil {
		return
	}
	m.postsPublished.WithLabelValues(feed).Inc()
}

func (m *Metrics) Skipped(feed string) {
	if m == nil {
		return
	}
	m.postsSkipped.WithLabelValues(feed).Inc()
}

// Finish records the outcome of the run
func (m *Metrics) Finish(started time.Time, watermark time.Time, err error) {
	if m == nil {
		return
	}
	now := time.Now()
	m.runDuration.Set(now.Sub(started).Seconds())
	if !watermark.IsZero() {
		m.watermark.Set(float64(watermark.Unix()))
	}
	if err != nil {
		m.lastRunFailed.Set(1)
		return
	}
	m.lastRunFailed.Set(0)
	m.lastSuccess.Set(float64(now.Unix()))
}

// Registry exposes the collectors, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteFile writes all metrics to path, atomically replacing it
func (m *Metrics) WriteFile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
