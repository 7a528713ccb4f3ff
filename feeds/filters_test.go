package feeds_test

import (
	"errors"
	"feedtoot/config"
	"feedtoot/feeds"
	"feedtoot/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func entryAt(url string, updated, published time.Time) models.Entry {
	return models.Entry{URL: url, Updated: updated, Published: published}
}

func urls(entries []models.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.URL
	}
	return out
}

func TestFilterEntries(t *testing.T) {
	t1 := now.Add(-3 * time.Hour)
	t2 := now.Add(-2 * time.Hour)
	t3 := now.Add(-1 * time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name      string
		entries   []models.Entry
		field     models.TimeField
		watermark time.Time
		expected  []string
	}{
		{
			name:     "no entries",
			entries:  nil,
			field:    models.TimeUpdated,
			expected: []string{},
		},
		{
			name: "unset watermark keeps everything up to now, sorted",
			entries: []models.Entry{
				entryAt("c", t3, t3),
				entryAt("a", t1, t1),
				entryAt("b", t2, t2),
			},
			field:    models.TimeUpdated,
			expected: []string{"a", "b", "c"},
		},
		{
			name: "entry at now is kept",
			entries: []models.Entry{
				entryAt("now", now, now),
			},
			field:    models.TimeUpdated,
			expected: []string{"now"},
		},
		{
			name: "future entries are dropped regardless of watermark",
			entries: []models.Entry{
				entryAt("future", future, future),
				entryAt("past", t1, t1),
			},
			field:     models.TimeUpdated,
			watermark: t1.Add(-time.Minute),
			expected:  []string{"past"},
		},
		{
			name: "watermark is exclusive",
			entries: []models.Entry{
				entryAt("a", t1, t1),
				entryAt("b", t2, t2),
				entryAt("c", t3, t3),
			},
			field:     models.TimeUpdated,
			watermark: t2,
			expected:  []string{"c"},
		},
		{
			name: "published field is honored",
			entries: []models.Entry{
				// updated recently, published long ago
				entryAt("old", t3, t1),
				entryAt("new", t3, t3),
			},
			field:     models.TimePublished,
			watermark: t2,
			expected:  []string{"new"},
		},
		{
			name: "ties keep feed order",
			entries: []models.Entry{
				entryAt("second", t2, t2),
				entryAt("x", t2, t2),
				entryAt("first", t1, t1),
				entryAt("y", t2, t2),
			},
			field:    models.TimeUpdated,
			expected: []string{"first", "second", "x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := feeds.FilterEntries(tt.entries, tt.field, tt.watermark, now)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, urls(got))
		})
	}
}

func TestFilterEntriesRejectsUnknownTimeField(t *testing.T) {
	_, err := feeds.FilterEntries(nil, models.TimeField("created"), time.Time{}, now)
	require.Error(t, err)

	var cfgErr *config.Error
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "time", cfgErr.Field)
}

func TestFilterEntriesProperty(t *testing.T) {
	// Every combination of entry time and watermark around now
	times := []time.Time{
		time.Time{}.Add(time.Hour),
		now.Add(-48 * time.Hour),
		now.Add(-time.Second),
		now,
		now.Add(time.Second),
		now.Add(48 * time.Hour),
	}
	watermarks := append([]time.Time{{}}, times...)

	for _, w := range watermarks {
		for _, ts := range times {
			got, err := feeds.FilterEntries([]models.Entry{entryAt("e", ts, ts)}, models.TimeUpdated, w, now)
			require.NoError(t, err)

			included := (w.IsZero() || ts.After(w)) && !ts.After(now)
			assert.Equal(t, included, len(got) == 1, "watermark %v entry %v", w, ts)
		}
	}
}

func TestFilterEntriesIsSorted(t *testing.T) {
	var entries []models.Entry
	for i := 0; i < 50; i++ {
		// deterministic shuffle of offsets
		offset := time.Duration((i*37)%50) * time.Minute
		entries = append(entries, entryAt("e", now.Add(-offset), now.Add(-offset)))
	}

	got, err := feeds.FilterEntries(entries, models.TimeUpdated, time.Time{}, now)
	require.NoError(t, err)
	require.Len(t, got, 50)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Updated.Before(got[i-1].Updated))
	}
}

func TestNewest(t *testing.T) {
	assert.True(t, feeds.Newest(nil, models.TimeUpdated).IsZero())

	entries := []models.Entry{
		entryAt("a", now.Add(-time.Hour), now.Add(-3*time.Hour)),
		entryAt("b", now.Add(-2*time.Hour), now.Add(-time.Minute)),
	}
	assert.Equal(t, now.Add(-time.Hour), feeds.Newest(entries, models.TimeUpdated))
	assert.Equal(t, now.Add(-time.Minute), feeds.Newest(entries, models.TimePublished))
}
