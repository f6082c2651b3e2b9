package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Editor: EditorConfig{SessionTTLMin: 120, SweepIntervalSec: 60},
		Store: StoreConfig{
			Type:    StoreBackend,
			Backend: BackendConfig{BaseURL: "https://api.likelive.example", TimeoutSec: 10},
		},
		Spotify: SpotifyConfig{Market: "JP"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "unknown store type",
			mutate: func(c *Config) {
				c.Store.Type = "postgres"
			},
			wantErr: true,
			errMsg:  "Type",
		},
		{
			name: "backend store without base url",
			mutate: func(c *Config) {
				c.Store.Backend.BaseURL = ""
			},
			wantErr: true,
			errMsg:  "base_url",
		},
		{
			name: "malformed base url",
			mutate: func(c *Config) {
				c.Store.Backend.BaseURL = "not a url"
			},
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name: "sqlite store",
			mutate: func(c *Config) {
				c.Store = StoreConfig{Type: StoreSQLite, SQLite: SQLiteConfig{Path: ":memory:"}, Backend: BackendConfig{TimeoutSec: 10}}
			},
			wantErr: false,
		},
		{
			name: "sqlite store without path",
			mutate: func(c *Config) {
				c.Store = StoreConfig{Type: StoreSQLite, Backend: BackendConfig{TimeoutSec: 10}}
			},
			wantErr: true,
			errMsg:  "sqlite.path",
		},
		{
			name: "spotify id without secret",
			mutate: func(c *Config) {
				c.Spotify.ClientID = "client-id"
			},
			wantErr: true,
			errMsg:  "ClientSecret",
		},
		{
			name: "invalid market length",
			mutate: func(c *Config) {
				c.Spotify.Market = "JAPAN" // 2文字ではない
			},
			wantErr: true,
			errMsg:  "Market",
		},
		{
			name: "session ttl out of range",
			mutate: func(c *Config) {
				c.Editor.SessionTTLMin = 0
			},
			wantErr: true,
			errMsg:  "SessionTTLMin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	yml := `
server:
  addr: ":9090"
store:
  type: backend
  backend:
    base_url: "https://api.likelive.example"
rules:
  title_length_rule:
    settings:
      max_length: 40
  title_required_rule:
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("BACKEND_TOKEN", "env-token")
	t.Setenv("LASTFM_API_KEY", "lastfm-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "env-token", cfg.Store.Backend.Token)
	assert.Equal(t, 10, cfg.Store.Backend.TimeoutSec)
	assert.Equal(t, 2*time.Hour, cfg.Editor.SessionTTL())
	assert.Equal(t, time.Minute, cfg.Editor.SweepInterval())
	assert.Equal(t, "JP", cfg.Spotify.Market)
	assert.True(t, cfg.LastFMEnabled())
	assert.False(t, cfg.SpotifyEnabled())

	enabled, settings := cfg.RuleSettings("title_length_rule")
	assert.True(t, enabled)
	assert.Equal(t, 40, settings["max_length"])

	enabled, _ = cfg.RuleSettings("title_required_rule")
	assert.False(t, enabled)

	enabled, settings = cfg.RuleSettings("setlist_gap_rule")
	assert.True(t, enabled)
	assert.Nil(t, settings)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_GetMessage(t *testing.T) {
	cfg := validConfig()
	cfg.Messages = MessagesConfig{
		Success:       "ok",
		DefaultError:  "error",
		TitleRequired: "title please",
		SetlistGap:    "gap",
	}

	assert.Equal(t, "ok", cfg.GetMessage("success"))
	assert.Equal(t, "title please", cfg.GetMessage("title_required"))
	assert.Equal(t, "gap", cfg.GetMessage("setlist_gap"))
	assert.Equal(t, "error", cfg.GetMessage("something_else"))
}
