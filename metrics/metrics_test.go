package metrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"feedtoot/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.Fetched("feed", 3)
		m.Eligible("feed", 1)
		m.Published("feed")
		m.Skipped("feed")
		m.Finish(time.Now(), time.Now(), nil)
	})
	assert.NoError(t, m.WriteFile(filepath.Join(t.TempDir(), "feedtoot.prom")))
}

func TestCounters(t *testing.T) {
	m := metrics.New()
	m.Fetched("a", 5)
	m.Fetched("b", 2)
	m.Eligible("a", 3)

	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP feedtoot_entries_fetched_total Entries found in the feed document
# TYPE feedtoot_entries_fetched_total counter
feedtoot_entries_fetched_total{feed="a"} 5
feedtoot_entries_fetched_total{feed="b"} 2
# HELP feedtoot_entries_eligible_total Entries newer than the watermark and not dated in the future
# TYPE feedtoot_entries_eligible_total counter
feedtoot_entries_eligible_total{feed="a"} 3
`), "feedtoot_entries_fetched_total", "feedtoot_entries_eligible_total")
	assert.NoError(t, err)
}

func TestFinish(t *testing.T) {
	watermark := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	m := metrics.New()
	m.Finish(time.Now().Add(-time.Second), watermark, errors.New("boom"))

	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP feedtoot_last_run_failed 1 if the run ended with an error
# TYPE feedtoot_last_run_failed gauge
feedtoot_last_run_failed 1
# HELP feedtoot_last_success_timestamp_seconds Time the last successful run finished
# TYPE feedtoot_last_success_timestamp_seconds gauge
feedtoot_last_success_timestamp_seconds 0
# HELP feedtoot_watermark_timestamp_seconds Watermark after the run
# TYPE feedtoot_watermark_timestamp_seconds gauge
feedtoot_watermark_timestamp_seconds 1.7041896e+09
`), "feedtoot_last_run_failed", "feedtoot_last_success_timestamp_seconds", "feedtoot_watermark_timestamp_seconds")
	assert.NoError(t, err)

	m.Finish(time.Now(), time.Time{}, nil)
	count, err := testutil.GatherAndCount(m.Registry(), "feedtoot_run_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWriteFile(t *testing.T) {
	m := metrics.New()
	m.Published("https://example.com/feed")

	path := filepath.Join(t.TempDir(), "feedtoot.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `feedtoot_posts_published_total{feed="https://example.com/feed"} 1`)
}
