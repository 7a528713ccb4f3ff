// Package setup asks the questions needed to write a first config
package setup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"feedtoot/config"
	"feedtoot/models"
)

const defaultAppName = "feedtoot"

// Asker is the interactive terminal
type Asker interface {
	Input(question, placeholder string) (string, error)
	Secret(question string) (string, error)
	Confirm(question string) (bool, error)
	Choose(question string, choices []string) (string, error)
}

// Accounts performs the network calls of the first run
type Accounts interface {
	RegisterApp(ctx context.Context, server, name string) (clientID, clientSecret string, err error)
	Login(ctx context.Context, server, clientID, clientSecret, username, password string) (string, error)
	VerifyBluesky(ctx context.Context, host, handle, password string) error
}

// Interactive builds a config from the answers. When the user does not
// want existing entries posted the watermark is set to now.
func Interactive(ctx context.Context, ask Asker, accounts Accounts, now time.Time) (*config.Config, error) {
	network, err := ask.Choose("Which network do you post to?", []string{config.NetworkMastodon, config.NetworkBluesky})
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Network:    network,
		Time:       models.TimeUpdated,
		Visibility: models.VisibilityUnlisted,
	}

	switch network {
	case config.NetworkBluesky:
		err = askBluesky(ctx, ask, accounts, cfg)
	default:
		err = askMastodon(ctx, ask, accounts, cfg)
	}
	if err != nil {
		return nil, err
	}

	feedURL, err := ask.Input("RSS/Atom feed URL to watch:", "")
	if err != nil {
		return nil, err
	}
	cfg.Feeds = []config.Feed{{URL: strings.TrimSpace(feedURL), Template: config.DefaultTemplate}}

	oldPosts, err := ask.Confirm("Shall already existing entries be posted, too?")
	if err != nil {
		return nil, err
	}
	if !oldPosts {
		cfg.Updated = config.NewTimestamp(now)
	}

	return cfg, nil
}

func askMastodon(ctx context.Context, ask Asker, accounts Accounts, cfg *config.Config) error {
	url, err := ask.Input("What is your Mastodon instance URL?", "https://mastodon.social")
	if err != nil {
		return err
	}
	cfg.URL = strings.TrimRight(strings.TrimSpace(url), "/")

	haveApp, err := ask.Confirm("Do you have your app credentials already?")
	if err != nil {
		return err
	}

	if haveApp {
		cfg.Name = defaultAppName
		if cfg.ClientID, err = ask.Input("What is your app's client id:", ""); err != nil {
			return err
		}
		if cfg.ClientSecret, err = ask.Secret("What is your client secret:"); err != nil {
			return err
		}
		if cfg.AccessToken, err = ask.Secret("access_token:"); err != nil {
			return err
		}
		return nil
	}

	name, err := ask.Input("App name:", defaultAppName)
	if err != nil {
		return err
	}
	if name = strings.TrimSpace(name); name == "" {
		name = defaultAppName
	}
	cfg.Name = name

	cfg.ClientID, cfg.ClientSecret, err = accounts.RegisterApp(ctx, cfg.URL, name)
	if err != nil {
		return err
	}

	username, err := ask.Input("Mastodon username (email):", "")
	if err != nil {
		return err
	}
	password, err := ask.Secret("Mastodon password (not stored):")
	if err != nil {
		return err
	}

	cfg.AccessToken, err = accounts.Login(ctx, cfg.URL, cfg.ClientID, cfg.ClientSecret, username, password)
	return err
}

func askBluesky(ctx context.Context, ask Asker, accounts Accounts, cfg *config.Config) error {
	host, err := ask.Input("PDS host:", "https://bsky.social")
	if err != nil {
		return err
	}
	cfg.URL = strings.TrimRight(strings.TrimSpace(host), "/")

	if cfg.Handle, err = ask.Input("Handle:", "myname.bsky.social"); err != nil {
		return err
	}
	if cfg.AppPassword, err = ask.Secret("App password (stored in the config):"); err != nil {
		return err
	}

	if err := accounts.VerifyBluesky(ctx, cfg.URL, cfg.Handle, cfg.AppPassword); err != nil {
		return fmt.Errorf("could not log in with provided credentials: %w", err)
	}
	return nil
}
