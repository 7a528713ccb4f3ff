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
	"time"

	"feedtoot/bluesky"
	"feedtoot/config"
	"feedtoot/mastodon"
	"feedtoot/setup"

	"github.com/cqroot/prompt"
	"github.com/cqroot/prompt/input"
	"github.com/urfave/cli/v2"
)

func setupCmd() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file interactively",
		Description: `Asks for your account, registers an app on Mastodon servers and logs
in to obtain an access token. Your password is not stored.

Writes a config with a single feed which you can extend by editing the file.`,
		Action: func(ctx *cli.Context) error {
			path := ctx.String("config")
			if _, err := os.Stat(path); err == nil {
				overwrite, err := promptAsker{}.Confirm(fmt.Sprintf("%s exists, overwrite it?", path))
				if err != nil {
					return err
				}
				if !overwrite {
					return nil
				}
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return runSetup(ctx.Context, path)
		},
	}
}

func runSetup(ctx context.Context, path string) error {
	cfg, err := setup.Interactive(ctx, promptAsker{}, liveAccounts{}, time.Now().UTC())
	if err != nil {
		return err
	}

	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}

	fmt.Println("")
	fmt.Printf("Your feedtoot configuration has been saved to %s\n", path)
	fmt.Println("Add a line like this to your crontab to check every 15 minutes:")
	fmt.Println("*/15 * * * * /usr/local/bin/feedtoot")
	fmt.Println("")
	return nil
}

// promptAsker asks on the terminal
type promptAsker struct{}

func (promptAsker) Input(question, placeholder string) (string, error) {
	return prompt.New().Ask(question).Input(placeholder)
}

func (promptAsker) Secret(question string) (string, error) {
	return prompt.New().Ask(question).Input("", input.WithEchoMode(input.EchoNone))
}

func (promptAsker) Confirm(question string) (bool, error) {
	answer, err := prompt.New().Ask(question).Choose([]string{"Yes", "No"})
	if err != nil {
		return false, err
	}
	return answer == "Yes", nil
}

func (promptAsker) Choose(question string, choices []string) (string, error) {
	return prompt.New().Ask(question).Choose(choices)
}

// liveAccounts talks to the real networks
type liveAccounts struct{}

func (liveAccounts) RegisterApp(ctx context.Context, server, name string) (string, string, error) {
	return mastodon.RegisterApp(ctx, server, name)
}

func (liveAccounts) Login(ctx context.Context, server, clientID, clientSecret, username, password string) (string, error) {
	return mastodon.Login(ctx, &mastodon.Credentials{
		Server:       server,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, username, password)
}

func (liveAccounts) VerifyBluesky(ctx context.Context, host, handle, password string) error {
	_, err := bluesky.ClientFromCredentials(ctx, host, &bluesky.Credentials{
		Identifier: handle,
		Password:   password,
	})
	return err
}
