// Package blog provides the blog Post domain entity.
package blog

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/likelive/internal/domain/setlist"
)

// MaxTitleLength is the maximum title length in runes.
const MaxTitleLength = 50

var (
	ErrNotFound        = errors.New("blog not found")
	ErrUnknownStatus   = errors.New("unknown blog status")
	ErrUnknownCategory = errors.New("unknown blog category")
)

// Status represents the publication status of a post.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// ParseStatus parses a status description, ignoring case.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusDraft, StatusPublished, StatusArchived} {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
}

// Category represents the kind of post.
type Category string

const (
	CategoryDiary  Category = "DIARY"
	CategoryReport Category = "REPORT" // Live report
	CategoryOther  Category = "OTHER"
)

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{CategoryDiary, CategoryReport, CategoryOther}
}

// ParseCategory parses a category description, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownCategory, "%q", s)
}

// Post is a blog post as handed to and read from a store.
type Post struct {
	ID           string          // Store-assigned ID, empty for new posts
	Title        string          // Post title
	Content      json.RawMessage // Rich-text document, opaque to this service
	Status       Status          // Publication status
	Category     Category        // Post category
	Setlist      setlist.Setlist // Serialized setlist
	ArtistIDs    []string        // Related Spotify artist IDs
	ThumbnailURL string          // Thumbnail image URL, kept as-is on update
}

// HasSetlist reports whether the post carries any setlist tracks.
func (p *Post) HasSetlist() bool {
	return !p.Setlist.IsEmpty()
}
