// Package backend provides a client for the LikeLive REST backend that
// persists blog posts.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/likelive/internal/domain/blog"
	"github.com/osa030/likelive/internal/domain/setlist"
)

// Client is a LikeLive backend API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Config represents backend client configuration.
type Config struct {
	BaseURL string
	Token   string // Bearer token sent with every request
	Timeout time.Duration
}

// blogResponse represents the response from GET /api/blog/{id}.
type blogResponse struct {
	Blog struct {
		ID           json.Number      `json:"id"`
		Title        string           `json:"title"`
		Content      json.RawMessage  `json:"content"`
		Status       string           `json:"status"`
		Category     string           `json:"category"`
		Setlist      *setlist.Setlist `json:"setlist"`
		ThumbnailURL string           `json:"thumbnailUrl"`
	} `json:"blog"`
	ArtistList []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artistList"`
}

// saveResponse represents the response from the create and update endpoints.
type saveResponse struct {
	ID json.Number `json:"id"`
}

// New creates a new backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.Wrap(err, "invalid backend base URL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Fetch retrieves a post by ID.
func (c *Client) Fetch(ctx context.Context, id string) (*blog.Post, error) {
	if id == "" {
		return nil, errors.New("blog ID is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/blog/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp blogResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}

	return toPost(resp)
}

// Create saves a new post and returns its ID.
func (c *Client) Create(ctx context.Context, p *blog.Post) (string, error) {
	return c.save(ctx, c.baseURL+"/api/blog/create", p)
}

// Update overwrites the post with the given ID.
func (c *Client) Update(ctx context.Context, id string, p *blog.Post) error {
	if id == "" {
		return errors.New("blog ID is required")
	}
	_, err := c.save(ctx, c.baseURL+"/api/blog/update/"+url.PathEscape(id), p)
	return err
}

func (c *Client) save(ctx context.Context, endpoint string, p *blog.Post) (string, error) {
	body, contentType, err := encodeForm(p)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", contentType)

	respBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	var resp saveResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", errors.Wrap(err, "failed to parse response")
	}
	if resp.ID == "" {
		return "", errors.New("backend response has no blog ID")
	}

	zlog.Debug().Msgf("backend saved blog %s (%s)", resp.ID, p.Status)
	return resp.ID.String(), nil
}

// do sends the request and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrapf(blog.ErrNotFound, "%s %s", req.Method, req.URL.Path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, errors.Errorf("backend error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// encodeForm builds the multipart form the blog endpoints accept.
// The setlist and content travel as JSON strings, artist IDs comma separated.
func encodeForm(p *blog.Post) (io.Reader, string, error) {
	sl, err := json.Marshal(p.Setlist)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to encode setlist")
	}

	content := p.Content
	if len(content) == 0 {
		content = json.RawMessage("{}")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"title", p.Title},
		{"content", string(content)},
		{"status", string(p.Status)},
		{"category", string(p.Category)},
		{"setlist", string(sl)},
		{"artistIdList", strings.Join(p.ArtistIDs, ",")},
	}
	if p.ThumbnailURL != "" {
		fields = append(fields, struct{ name, value string }{"thumbnailUrl", p.ThumbnailURL})
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", errors.Wrap(err, fmt.Sprintf("failed to write field %s", f.name))
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to close form")
	}
	return &buf, w.FormDataContentType(), nil
}

func toPost(resp blogResponse) (*blog.Post, error) {
	status, err := blog.ParseStatus(resp.Blog.Status)
	if err != nil {
		return nil, err
	}
	category, err := blog.ParseCategory(resp.Blog.Category)
	if err != nil {
		return nil, err
	}

	p := &blog.Post{
		ID:           resp.Blog.ID.String(),
		Title:        resp.Blog.Title,
		Content:      resp.Blog.Content,
		Status:       status,
		Category:     category,
		ThumbnailURL: resp.Blog.ThumbnailURL,
		ArtistIDs:    make([]string, 0, len(resp.ArtistList)),
	}
	if resp.Blog.Setlist != nil {
		p.Setlist = *resp.Blog.Setlist
	}
	for _, a := range resp.ArtistList {
		p.ArtistIDs = append(p.ArtistIDs, a.ID)
	}
	return p, nil
}
