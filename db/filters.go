package db

import (
	"time"

	"feedtoot/query"

	"github.com/huandu/go-sqlbuilder"
)

// FeedFilter keeps posts of a single feed
type FeedFilter struct {
	URL string
}

func (f *FeedFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	if f.URL != "" {
		sb.Where(sb.Equal("feed_url", f.URL))
	}
}

// SinceFilter keeps posts published at or after Time
type SinceFilter struct {
	Time time.Time
}

func (f *SinceFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	if !f.Time.IsZero() {
		sb.Where(sb.GreaterEqualThan("posted_at", f.Time))
	}
}

var _ query.FilterStrategy = (*FeedFilter)(nil)
var _ query.FilterStrategy = (*SinceFilter)(nil)
