package config

import (
	"fmt"
	"strings"
)

// Error reports an invalid or malformed configuration
type Error struct {
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %s: %v", e.Field, e.Msg, e.Err)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validate checks the selectors and rewrite rules. Templates are checked
// when they are compiled by the publisher.
func (c *Config) Validate() error {
	if !c.TimeField().Valid() {
		return &Error{Field: "time", Msg: `if set, must be "updated" or "published"`}
	}
	if !c.Visibility.Valid() {
		return &Error{Field: "visibility", Msg: `if set, must be "direct", "private", "unlisted", or "public"`}
	}

	switch c.NetworkName() {
	case NetworkMastodon:
		if c.URL == "" {
			return &Error{Field: "url", Msg: "instance URL is required"}
		}
	case NetworkBluesky:
		if c.Handle == "" || c.AppPassword == "" {
			return &Error{Field: "handle", Msg: "bluesky requires handle and app_password"}
		}
	default:
		return &Error{Field: "network", Msg: fmt.Sprintf(`unknown network %q, must be "mastodon" or "bluesky"`, c.Network)}
	}

	for i, feed := range c.Feeds {
		if strings.TrimSpace(feed.URL) == "" {
			return &Error{Field: fmt.Sprintf("feeds[%d].url", i), Msg: "feed URL is required"}
		}
	}

	if err := validateRules("rewrite_source", c.RewriteSource); err != nil {
		return err
	}
	return validateRules("rewrite_target", c.RewriteTarget)
}

func validateRules(field string, rules []RewriteRule) error {
	for i, rule := range rules {
		if rule.Source == "" {
			return &Error{Field: fmt.Sprintf("%s[%d].source", field, i), Msg: "source must not be empty"}
		}
		if len(rule.Targets) == 0 {
			return &Error{Field: fmt.Sprintf("%s[%d].targets", field, i), Msg: "at least one target is required"}
		}
	}
	return nil
}
