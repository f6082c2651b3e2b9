// Package sqlite provides a local blog post store backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/likelive/internal/domain/blog"
	"github.com/osa030/likelive/internal/domain/setlist"
)

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	content       TEXT NOT NULL DEFAULT '{}',
	status        TEXT NOT NULL,
	category      TEXT NOT NULL,
	setlist       TEXT NOT NULL,
	artist_ids    TEXT NOT NULL DEFAULT '',
	thumbnail_url TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
)`

// Store keeps posts in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and creates the schema if needed.
// The path can be ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	zlog.Info().Msgf("sqlite store opened: %s", path)
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Fetch retrieves a post by ID.
func (s *Store) Fetch(ctx context.Context, id string) (*blog.Post, error) {
	query := `
		SELECT id, title, content, status, category, setlist, artist_ids, thumbnail_url
		FROM posts
		WHERE id = ?
	`

	var (
		p                                      blog.Post
		content, status, category, sl, artists string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &content, &status, &category, &sl, &artists, &p.ThumbnailURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(blog.ErrNotFound, "id %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query post")
	}

	if p.Status, err = blog.ParseStatus(status); err != nil {
		return nil, err
	}
	if p.Category, err = blog.ParseCategory(category); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sl), &p.Setlist); err != nil {
		return nil, errors.Wrap(err, "failed to decode setlist")
	}
	p.Content = json.RawMessage(content)
	p.ArtistIDs = splitIDs(artists)

	return &p, nil
}

// Create inserts a new post and returns its generated ID.
func (s *Store) Create(ctx context.Context, p *blog.Post) (string, error) {
	sl, content, err := encode(p)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	query := `
		INSERT INTO posts (id, title, content, status, category, setlist, artist_ids, thumbnail_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		id,
		p.Title,
		content,
		string(p.Status),
		string(p.Category),
		sl,
		strings.Join(p.ArtistIDs, ","),
		p.ThumbnailURL,
		now,
		now,
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to insert post")
	}

	zlog.Debug().Msgf("sqlite created post %s (%s)", id, p.Status)
	return id, nil
}

// Update overwrites an existing post.
func (s *Store) Update(ctx context.Context, id string, p *blog.Post) error {
	sl, content, err := encode(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE posts
		SET title = ?, content = ?, status = ?, category = ?, setlist = ?, artist_ids = ?, thumbnail_url = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		p.Title,
		content,
		string(p.Status),
		string(p.Category),
		sl,
		strings.Join(p.ArtistIDs, ","),
		p.ThumbnailURL,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update post")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return errors.Wrapf(blog.ErrNotFound, "id %s", id)
	}

	zlog.Debug().Msgf("sqlite updated post %s (%s)", id, p.Status)
	return nil
}

func encode(p *blog.Post) (string, string, error) {
	sl := p.Setlist
	if sl.MainSetList == nil {
		sl.MainSetList = []setlist.Track{}
	}
	if sl.EncoreSections == nil {
		sl.EncoreSections = [][]setlist.Track{}
	}
	data, err := json.Marshal(sl)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to encode setlist")
	}

	content := string(p.Content)
	if content == "" {
		content = "{}"
	}
	return string(data), content, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
