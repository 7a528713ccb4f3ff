package db

import (
	"context"
	"fmt"

	"feedtoot/models"
	"feedtoot/query"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// RecentPosts returns the newest ledger rows first
func (db *DB) RecentPosts(ctx context.Context, limit int, filters ...query.FilterStrategy) ([]models.HistoryRecord, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "feed_url", "entry_url", "title", "entry_time", "post_id", "post_uri", "posted_at").
		From("posts")

	for _, filter := range filters {
		filter.ApplyFilter(sb)
	}

	sb.OrderBy("posted_at").Desc()
	if limit > 0 {
		sb.Limit(limit)
	}

	sql, args := sb.Build()
	log.WithFields(log.Fields{
		"sql":  sql,
		"args": args,
	}).Debug("Generated SQL query")

	rows, err := db.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var r models.HistoryRecord
		if err := rows.Scan(&r.Id, &r.FeedURL, &r.EntryURL, &r.Title, &r.EntryTime, &r.PostID, &r.PostURI, &r.PostedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return records, nil
}
