/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"time"

	"feedtoot/db"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func tidyCmd() *cli.Command {
	return &cli.Command{
		Name:  "tidy",
		Usage: "Tidy up the post history",
		Description: `Tidy up the post history by removing posts that are old.

		Removes posts that were published more than --days days ago.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "days",
				Value: 90,
				Usage: "Keep posts younger than this many days",
			},
		},
		Action: func(ctx *cli.Context) error {
			dsn, err := requireDSN(ctx)
			if err != nil {
				return err
			}

			database, err := db.NewDB(dsn)
			if err != nil {
				return err
			}
			defer database.Close()

			removed, err := database.Tidy(ctx.Context, time.Duration(ctx.Int("days"))*24*time.Hour)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"removed": removed}).Info("Tidied post history")
			return nil
		},
	}
}
