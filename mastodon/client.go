// Package mastodon posts statuses to Mastodon compatible servers and
// handles the app registration needed on first run
package mastodon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"feedtoot/models"

	gomastodon "github.com/mattn/go-mastodon"
	log "github.com/sirupsen/logrus"
)

const (
	// MaxStatusLength is the default character limit of a Mastodon status
	MaxStatusLength = 500

	appScopes  = "read write"
	appWebsite = "https://github.com/feedtoot/feedtoot"
)

type Credentials struct {
	Server       string
	ClientID     string
	ClientSecret string
	AccessToken  string
}

type Client struct {
	api *gomastodon.Client
}

func NewClient(creds *Credentials) *Client {
	api := gomastodon.NewClient(&gomastodon.Config{
		Server:       creds.Server,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		AccessToken:  creds.AccessToken,
	})
	api.Client = http.Client{Timeout: 30 * time.Second}
	return &Client{api: api}
}

// Post publishes a status and returns its id and public URL
func (c *Client) Post(ctx context.Context, status models.Status) (models.PostRef, error) {
	toot := &gomastodon.Toot{
		Status:     status.Text,
		Visibility: string(status.Visibility),
		Language:   status.Language,
	}

	posted, err := c.api.PostStatus(ctx, toot)
	if err != nil {
		return models.PostRef{}, fmt.Errorf("failed to post status: %w", err)
	}

	log.WithFields(log.Fields{
		"id":  posted.ID,
		"url": posted.URL,
	}).Debug("Posted status")

	return models.PostRef{ID: string(posted.ID), URI: posted.URL}, nil
}

func (c *Client) MaxLength() int {
	return MaxStatusLength
}

// RegisterApp creates an OAuth application on the server
func RegisterApp(ctx context.Context, server, name string) (clientID, clientSecret string, err error) {
	app, err := gomastodon.RegisterApp(ctx, &gomastodon.AppConfig{
		Server:     server,
		ClientName: name,
		Scopes:     appScopes,
		Website:    appWebsite,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to register app: %w", err)
	}
	return app.ClientID, app.ClientSecret, nil
}

// Login exchanges a username and password for an access token. The
// password is only used for this request.
func Login(ctx context.Context, creds *Credentials, username, password string) (string, error) {
	client := NewClient(creds)
	if err := client.api.Authenticate(ctx, username, password); err != nil {
		return "", fmt.Errorf("failed to log in: %w", err)
	}
	return client.api.Config.AccessToken, nil
}
