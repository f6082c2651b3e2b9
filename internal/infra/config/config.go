// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Store types.
const (
	StoreBackend = "backend" // LikeLive REST backend
	StoreSQLite  = "sqlite"  // Local SQLite file
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig          `yaml:"server"`
	Editor   EditorConfig          `yaml:"editor"`
	Store    StoreConfig           `yaml:"store"`
	Rules    map[string]RuleConfig `yaml:"rules"`
	Messages MessagesConfig        `yaml:"messages"`
	Spotify  SpotifyConfig         `yaml:"spotify"`
	LastFM   LastFMConfig          `yaml:"lastfm"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr     string `yaml:"addr" default:":8080"`
	APIToken string `yaml:"api_token"` // Empty disables token checks
}

// EditorConfig represents editing session configuration.
type EditorConfig struct {
	SessionTTLMin    int `yaml:"session_ttl_min" default:"120" validate:"gte=1,lte=1440"`
	SweepIntervalSec int `yaml:"sweep_interval_sec" default:"60" validate:"gte=1,lte=3600"`
}

// SessionTTL returns how long an idle session is kept.
func (e EditorConfig) SessionTTL() time.Duration {
	return time.Duration(e.SessionTTLMin) * time.Minute
}

// SweepInterval returns how often idle sessions are swept.
func (e EditorConfig) SweepInterval() time.Duration {
	return time.Duration(e.SweepIntervalSec) * time.Second
}

// StoreConfig represents where submitted posts are saved.
type StoreConfig struct {
	Type    string        `yaml:"type" default:"backend" validate:"oneof=backend sqlite"`
	Backend BackendConfig `yaml:"backend"`
	SQLite  SQLiteConfig  `yaml:"sqlite"`
}

// BackendConfig represents the LikeLive REST backend connection.
type BackendConfig struct {
	BaseURL    string `yaml:"base_url" validate:"omitempty,url"`
	Token      string `yaml:"token"`
	TimeoutSec int    `yaml:"timeout_sec" default:"10" validate:"gte=1,lte=120"`
}

// SQLiteConfig represents the local SQLite store.
type SQLiteConfig struct {
	Path string `yaml:"path" default:"likelive.db"`
}

// RuleConfig represents a submission rule's configuration.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled"` // nil means enabled
	Settings map[string]any `yaml:"settings,omitempty"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	Success            string `yaml:"success" default:"Saved"`
	DefaultError       string `yaml:"default_error" default:"Could not save the post"`
	TitleRequired      string `yaml:"title_required" default:"Please enter a title"`
	TitleTooLong       string `yaml:"title_too_long" default:"The title is too long"`
	SetlistGap         string `yaml:"setlist_gap" default:"Fill in the songs in order"`
	EncoreSectionEmpty string `yaml:"encore_section_empty" default:"Enter at least one song per encore"`
}

// SpotifyConfig represents Spotify API configuration.
// Artist search is disabled when the credentials are empty.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret" validate:"required_with=ClientID"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"JP"`
}

// LastFMConfig represents Last.fm API configuration.
// Track suggestions are disabled when the key is empty.
type LastFMConfig struct {
	APIKey string `yaml:"api_key"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("LIKELIVE_API_TOKEN"); v != "" {
		c.Server.APIToken = v
	}
	if v := os.Getenv("BACKEND_TOKEN"); v != "" {
		c.Store.Backend.Token = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("LASTFM_API_KEY"); v != "" {
		c.LastFM.APIKey = v
	}
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "success":
		return c.Messages.Success
	case "title_required":
		return c.Messages.TitleRequired
	case "title_too_long":
		return c.Messages.TitleTooLong
	case "setlist_gap":
		return c.Messages.SetlistGap
	case "encore_section_empty":
		return c.Messages.EncoreSectionEmpty
	default:
		return c.Messages.DefaultError
	}
}

// RuleSettings reports whether a rule is enabled and returns its settings.
// Rules missing from the config are enabled with no settings.
func (c *Config) RuleSettings(name string) (bool, map[string]any) {
	r, ok := c.Rules[name]
	if !ok {
		return true, nil
	}
	if r.Enabled != nil && !*r.Enabled {
		return false, r.Settings
	}
	return true, r.Settings
}

// SpotifyEnabled reports whether artist search is configured.
func (c *Config) SpotifyEnabled() bool {
	return c.Spotify.ClientID != "" && c.Spotify.ClientSecret != ""
}

// LastFMEnabled reports whether track suggestions are configured.
func (c *Config) LastFMEnabled() bool {
	return c.LastFM.APIKey != ""
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.Store.Type == StoreBackend && c.Store.Backend.BaseURL == "" {
		return errors.New("store.backend.base_url is required for the backend store")
	}
	if c.Store.Type == StoreSQLite && c.Store.SQLite.Path == "" {
		return errors.New("store.sqlite.path is required for the sqlite store")
	}

	return nil
}
