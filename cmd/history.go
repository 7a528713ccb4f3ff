/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"feedtoot/db"
	"feedtoot/models"
	"feedtoot/query"

	"github.com/urfave/cli/v2"
)

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Print recently published posts",
		Description: `Prints the newest entries of the post history, one JSON object per line.
Use a tool like jq to process the output.

Requires a post history database, see the migrate command.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Value:   20,
				Usage:   "Number of posts to print",
			},
			&cli.StringFlag{
				Name:  "feed",
				Usage: "Only print posts of this feed URL",
			},
			&cli.DurationFlag{
				Name:  "since",
				Usage: "Only print posts published within this duration, e.g. 24h",
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

			filters := []query.FilterStrategy{&db.FeedFilter{URL: ctx.String("feed")}}
			if since := ctx.Duration("since"); since > 0 {
				filters = append(filters, &db.SinceFilter{Time: time.Now().Add(-since)})
			}

			records, err := database.RecentPosts(ctx.Context, ctx.Int("limit"), filters...)
			if err != nil {
				return err
			}

			for i := range records {
				printStdout(os.Stdout, &records[i])
			}
			return nil
		},
	}
}

// printStdout prints the record as a single JSON line
func printStdout(w io.Writer, record *models.HistoryRecord) {
	recordJson, err := json.Marshal(record)
	if err == nil {
		fmt.Fprintln(w, string(recordJson))
	}
}
