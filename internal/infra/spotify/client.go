// Package spotify provides a client for the Spotify API.
package spotify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/osa030/likelive/internal/domain/artist"
)

// Client is a Spotify API client.
type Client struct {
	client     *spotify.Client
	market     string
	maxRetries int
	retryDelay time.Duration
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	Market       string
	APIURL       string // Overrides the Web API base URL
	TokenURL     string // Overrides the accounts token URL
}

// New creates a new Spotify client authenticated with the client
// credentials flow. No user authorization is needed for catalog lookups.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	auth := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	var opts []spotify.ClientOption
	if cfg.APIURL != "" {
		opts = append(opts, spotify.WithBaseURL(strings.TrimRight(cfg.APIURL, "/")+"/"))
	}
	client := spotify.New(auth.Client(ctx), opts...)

	market := cfg.Market
	if market == "" {
		market = "JP"
	}

	return &Client{
		client:     client,
		market:     market,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// SearchArtists searches for artists by name.
func (c *Client) SearchArtists(ctx context.Context, query string, limit int) ([]artist.Artist, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}

	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	var result *spotify.SearchResult
	err := c.retry(func() error {
		r, err := c.client.Search(ctx, query, spotify.SearchTypeArtist,
			spotify.Limit(limit),
			spotify.Market(c.market),
		)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to search artists")
	}

	if result.Artists == nil {
		return []artist.Artist{}, nil
	}

	artists := make([]artist.Artist, 0, len(result.Artists.Artists))
	for _, a := range result.Artists.Artists {
		artists = append(artists, convertArtist(a))
	}

	zlog.Debug().Msgf("spotify artist search %q: %d results", query, len(artists))
	return artists, nil
}

// convertArtist converts a Spotify FullArtist to domain Artist.
func convertArtist(a spotify.FullArtist) artist.Artist {
	// Spotify lists images widest first.
	var imageURL string
	if len(a.Images) > 0 {
		imageURL = a.Images[0].URL
	}

	genres := make([]string, len(a.Genres))
	copy(genres, a.Genres)

	return artist.Artist{
		ID:         string(a.ID),
		Name:       a.Name,
		Genres:     genres,
		ImageURL:   imageURL,
		URL:        GetArtistURL(string(a.ID)),
		Popularity: int(a.Popularity),
	}
}

// GetArtistURL returns the Spotify URL for an artist.
func GetArtistURL(artistID string) string {
	return fmt.Sprintf("https://open.spotify.com/artist/%s", artistID)
}

// retry retries an operation with linear backoff.
func (c *Client) retry(fn func() error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelay * time.Duration(i+1))
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == 429 || apiErr.Status >= 500
	}

	// Rate limit errors and server errors are retryable
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}
