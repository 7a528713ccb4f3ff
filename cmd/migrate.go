/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"net/url"

	"feedtoot/config"
	"feedtoot/db"

	"github.com/urfave/cli/v2"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Usage:       "Run post history migrations",
		Description: `Creates or upgrades the post history tables in the PostgreSQL database given by --history-dsn or history_dsn in the config.`,
		Action: func(ctx *cli.Context) error {
			dsn, err := requireDSN(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Database configured: %s\n", redactDSN(dsn))
			return db.Migrate(dsn)
		},
	}
}

func rollbackCmd() *cli.Command {
	return &cli.Command{
		Name:        "rollback",
		Usage:       "Rollback post history migration",
		Description: `Rolls back the last post history migration`,
		Action: func(ctx *cli.Context) error {
			dsn, err := requireDSN(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Database configured: %s\n", redactDSN(dsn))
			return db.Rollback(dsn)
		},
	}
}

// requireDSN resolves the history database from the flag or, failing
// that, from the config file
func requireDSN(ctx *cli.Context) (string, error) {
	var cfg *config.Config
	if ctx.String("history-dsn") == "" {
		loaded, err := config.LoadConfig(ctx.String("config"))
		if err != nil {
			return "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	dsn := historyDSN(ctx, cfg)
	if dsn == "" {
		return "", errors.New("no post history configured, set --history-dsn or history_dsn in the config")
	}
	return dsn, nil
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}
