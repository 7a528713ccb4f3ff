// Package db stores a ledger of published posts in PostgreSQL
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB handles all ledger operations with a shared connection pool
type DB struct {
	db *sql.DB
}

// NewDB opens a connection pool for dsn, a postgres:// URL
func NewDB(dsn string) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// One run posts sequentially, a couple of connections is plenty
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(time.Hour)

	return &DB{db: db}, nil
}

// New wraps an existing pool
func New(db *sql.DB) *DB {
	return &DB{db: db}
}

func (db *DB) Close() error {
	return db.db.Close()
}
