/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"feedtoot/config"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "feedtoot",
		Usage: "Post new RSS/Atom feed entries to Mastodon or Bluesky",
		Description: `Fetches the configured feeds and posts every entry that is newer
		than the last run to your account. Run it from cron:

		*/15 * * * * /usr/local/bin/feedtoot

		On first use an interactive setup writes the config file.

		Flags can generally be set via environment variables, e.g.:

		--config => FEEDTOOT_CONFIG=~/.feedtoot
		--dry-run => FEEDTOOT_DRY_RUN=true
		`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath(),
				Usage:   "Config file to use (.toml for TOML, YAML otherwise)",
				EnvVars: []string{"FEEDTOOT_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Be verbose",
				EnvVars: []string{"FEEDTOOT_VERBOSE"},
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Perform a trial run with no changes made: don't post, don't save config",
				EnvVars: []string{"FEEDTOOT_DRY_RUN"},
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics of the run to this file",
				EnvVars: []string{"FEEDTOOT_METRICS_FILE"},
			},
			&cli.StringFlag{
				Name:    "history-dsn",
				Usage:   "PostgreSQL URL of the post history, overrides history_dsn in the config",
				EnvVars: []string{"FEEDTOOT_HISTORY_DSN"},
			},
		},
		Before: func(ctx *cli.Context) error {
			log.SetOutput(os.Stderr)
			if ctx.Bool("verbose") {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			runCmd(),
			setupCmd(),
			migrateCmd(),
			rollbackCmd(),
			historyCmd(),
			tidyCmd(),
		},
		Action: runAction,
	}
}

// Execute runs the app with os.Args and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootApp().RunContext(ctx, os.Args); err != nil {
		stop()
		log.Fatal(err)
	}
}
