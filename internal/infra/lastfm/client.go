// Package lastfm provides a client for the Last.fm API.
package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Client is a Last.fm API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// Cache for artist top tracks
	topTracksCache map[string][]string
	cacheMu        sync.RWMutex
}

// Config represents Last.fm client configuration.
type Config struct {
	APIKey string
}

// GetTopTracksResponse represents the response from artist.getTopTracks API.
type GetTopTracksResponse struct {
	TopTracks struct {
		Track []struct {
			Name      string `json:"name"`
			Playcount string `json:"playcount"`
		} `json:"track"`
	} `json:"toptracks"`
}

// LastFMError represents an error response from Last.fm API.
type LastFMError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// New creates a new Last.fm client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("last.fm API key is required")
	}

	return &Client{
		apiKey:         cfg.APIKey,
		baseURL:        "https://ws.audioscrobbler.com/2.0/",
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		topTracksCache: make(map[string][]string),
	}, nil
}

// TopTrackNames retrieves the names of an artist's most played tracks.
// Reference: https://www.last.fm/api/show/artist.getTopTracks
func (c *Client) TopTrackNames(ctx context.Context, artistName string, limit int) ([]string, error) {
	artistName = strings.TrimSpace(artistName)
	if artistName == "" {
		return nil, errors.New("artist name is required")
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	// Check cache first
	cacheKey := fmt.Sprintf("%s:%d", strings.ToLower(artistName), limit)
	c.cacheMu.RLock()
	if names, ok := c.topTracksCache[cacheKey]; ok {
		c.cacheMu.RUnlock()
		zlog.Debug().Msgf("using cached top tracks for artist: %s", artistName)
		return names, nil
	}
	c.cacheMu.RUnlock()

	params := url.Values{}
	params.Set("method", "artist.getTopTracks")
	params.Set("artist", artistName)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("autocorrect", "1")

	var response GetTopTracksResponse
	if err := c.call(ctx, params, &response); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(response.TopTracks.Track))
	for i, t := range response.TopTracks.Track {
		if i >= limit {
			break
		}
		names = append(names, t.Name)
	}

	// Cache the result
	c.cacheMu.Lock()
	c.topTracksCache[cacheKey] = names
	c.cacheMu.Unlock()
	zlog.Debug().Msgf("cached top tracks for artist: %s (count: %d)", artistName, len(names))

	return names, nil
}

// call performs a GET request for the given method parameters and decodes
// the JSON response into out.
func (c *Client) call(ctx context.Context, params url.Values, out any) error {
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	// Check for Last.fm API errors
	var apiError LastFMError
	if err := json.Unmarshal(body, &apiError); err == nil && apiError.Error != 0 {
		return errors.Errorf("last.fm API error %d: %s", apiError.Error, apiError.Message)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed to parse response")
	}
	return nil
}
