package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"feedtoot/models"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	NetworkMastodon = "mastodon"
	NetworkBluesky  = "bluesky"

	DefaultTemplate = "{title} {url}"
	DefaultFileName = ".feedtoot"
)

// RewriteTarget is one replacement candidate of a rewrite rule
type RewriteTarget struct {
	Text string `yaml:"text" toml:"text"`
}

// RewriteRule replaces every occurrence of Source with one of Targets
type RewriteRule struct {
	Source  string          `yaml:"source" toml:"source"`
	Targets []RewriteTarget `yaml:"targets" toml:"targets"`
}

// Feed is a subscribed feed and the template its entries are posted with
type Feed struct {
	URL      string `yaml:"url" toml:"url"`
	Template string `yaml:"template" toml:"template"`
}

// Config is the persisted state of the bot: account credentials, the feeds
// it follows and the watermark of the newest entry it has handled.
type Config struct {
	Name    string `yaml:"name,omitempty" toml:"name,omitempty"`
	Network string `yaml:"network,omitempty" toml:"network,omitempty"`
	URL     string `yaml:"url" toml:"url"`

	// Mastodon credentials
	ClientID     string `yaml:"client_id,omitempty" toml:"client_id,omitempty"`
	ClientSecret string `yaml:"client_secret,omitempty" toml:"client_secret,omitempty"`
	AccessToken  string `yaml:"access_token,omitempty" toml:"access_token,omitempty"`

	// Bluesky credentials
	Handle      string `yaml:"handle,omitempty" toml:"handle,omitempty"`
	AppPassword string `yaml:"app_password,omitempty" toml:"app_password,omitempty"`

	Updated        Timestamp         `yaml:"updated,omitempty" toml:"updated,omitempty"`
	Time           models.TimeField  `yaml:"time,omitempty" toml:"time,omitempty"`
	Visibility     models.Visibility `yaml:"visibility,omitempty" toml:"visibility,omitempty"`
	DetectLanguage bool              `yaml:"detect_language,omitempty" toml:"detect_language,omitempty"`
	Languages      []string          `yaml:"languages,omitempty" toml:"languages,omitempty"`
	HistoryDSN     string            `yaml:"history_dsn,omitempty" toml:"history_dsn,omitempty"`

	Feeds         []Feed        `yaml:"feeds" toml:"feeds"`
	RewriteSource []RewriteRule `yaml:"rewrite_source,omitempty" toml:"rewrite_source,omitempty"`
	RewriteTarget []RewriteRule `yaml:"rewrite_target,omitempty" toml:"rewrite_target,omitempty"`
}

// TimeField returns the configured time selector, defaulting to updated
func (c *Config) TimeField() models.TimeField {
	if c.Time == "" {
		return models.TimeUpdated
	}
	return c.Time
}

// NetworkName returns the configured network, defaulting to mastodon
func (c *Config) NetworkName() string {
	if c.Network == "" {
		return NetworkMastodon
	}
	return c.Network
}

// DefaultPath returns ~/.feedtoot
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, DefaultFileName)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadConfig reads and validates the document at path. Files ending in
// .toml are decoded as TOML, anything else as YAML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Decode(data, isTOML(path))
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses a config document without validating it
func Decode(data []byte, asTOML bool) (*Config, error) {
	var cfg Config
	if asTOML {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, &Error{Field: "document", Msg: "malformed TOML", Err: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &Error{Field: "document", Msg: "malformed YAML", Err: err}
		}
	}
	return &cfg, nil
}

// Encode serializes the config in the format selected by asTOML
func Encode(cfg *Config, asTOML bool) ([]byte, error) {
	if asTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("error encoding config: %w", err)
		}
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveConfig rewrites the whole document at path. The file is replaced
// atomically so a crash never leaves a truncated config behind.
func SaveConfig(cfg *Config, path string) error {
	data, err := Encode(cfg, isTOML(path))
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Chmod(mode); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
