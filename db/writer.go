package db

import (
	"context"
	"fmt"
	"time"

	"feedtoot/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// RecordPost appends a published post to the ledger
func (db *DB) RecordPost(ctx context.Context, record models.HistoryRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if record.PostedAt.IsZero() {
		record.PostedAt = time.Now().UTC()
	}

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("posts").
		Cols("feed_url", "entry_url", "title", "entry_time", "post_id", "post_uri", "posted_at").
		Values(record.FeedURL, record.EntryURL, record.Title, record.EntryTime, record.PostID, record.PostURI, record.PostedAt)

	sql, args := ib.Build()
	log.WithFields(log.Fields{
		"feed":      record.FeedURL,
		"entry_url": record.EntryURL,
		"post_id":   record.PostID,
	}).Debug("Recording post")

	if _, err := db.db.ExecContext(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert error: %w", err)
	}
	return nil
}
