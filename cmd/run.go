/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"feedtoot/bluesky"
	"feedtoot/config"
	"feedtoot/db"
	"feedtoot/language"
	"feedtoot/mastodon"
	"feedtoot/metrics"
	"feedtoot/publisher"
	"feedtoot/runner"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Post new feed entries (default command)",
		Description: `Fetches every configured feed and posts the entries that are newer
than the watermark stored in the config, oldest first. The watermark is
advanced and the config saved once all feeds are done.

Runs the interactive setup first if the config file does not exist.`,
		Action: runAction,
	}
}

func runAction(ctx *cli.Context) error {
	path := ctx.String("config")
	dryRun := ctx.Bool("dry-run")

	log.WithFields(log.Fields{"path": path}).Debug("Using config file")

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := runSetup(ctx.Context, path); err != nil {
			return err
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var m *metrics.Metrics
	if ctx.String("metrics-file") != "" {
		m = metrics.New()
	}

	opts := runner.Options{
		ConfigPath: path,
		DryRun:     dryRun,
		Metrics:    m,
	}

	if !dryRun || cfg.NetworkName() == config.NetworkMastodon {
		poster, err := newPoster(ctx.Context, cfg)
		if err != nil {
			return err
		}
		opts.Poster = poster
	}

	if dsn := historyDSN(ctx, cfg); dsn != "" && !dryRun {
		database, err := db.NewDB(dsn)
		if err != nil {
			return err
		}
		defer database.Close()
		opts.Recorder = database
	}

	if cfg.DetectLanguage {
		opts.Detector = language.NewDetector(cfg.Languages)
	}

	r, err := runner.New(cfg, opts)
	if err != nil {
		return err
	}

	result, err := r.Run(ctx.Context)
	if werr := m.WriteFile(ctx.String("metrics-file")); werr != nil {
		log.Errorf("Failed to write metrics: %v", werr)
	}
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"posted":    result.Posted,
		"eligible":  result.Eligible,
		"watermark": config.NewTimestamp(result.Watermark).String(),
	}).Info("Done")
	return nil
}

func newPoster(ctx context.Context, cfg *config.Config) (publisher.Poster, error) {
	switch cfg.NetworkName() {
	case config.NetworkBluesky:
		client, err := bluesky.ClientFromCredentials(ctx, cfg.URL, &bluesky.Credentials{
			Identifier: cfg.Handle,
			Password:   cfg.AppPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create client with provided credentials: %w", err)
		}
		return client, nil
	default:
		return mastodon.NewClient(&mastodon.Credentials{
			Server:       cfg.URL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			AccessToken:  cfg.AccessToken,
		}), nil
	}
}

// historyDSN prefers the flag over the config file
func historyDSN(ctx *cli.Context, cfg *config.Config) string {
	if dsn := ctx.String("history-dsn"); dsn != "" {
		return dsn
	}
	if cfg != nil {
		return cfg.HistoryDSN
	}
	return ""
}
