package db

import (
	"context"
	"fmt"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Tidy removes ledger rows posted more than maxAge ago and returns how
// many were deleted
func (db *DB) Tidy(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UTC()

	deletePosts := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sql, args := deletePosts.DeleteFrom("posts").Where(deletePosts.LessThan("posted_at", cutoff)).Build()

	log.WithFields(log.Fields{
		"sql":  sql,
		"args": args,
	}).Info("Tidying database")

	res, err := db.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete error: %w", err)
	}
	return res.RowsAffected()
}
