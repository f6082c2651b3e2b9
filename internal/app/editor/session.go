package editor

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/osa030/likelive/internal/domain/blog"
	"github.com/osa030/likelive/internal/domain/setlist"
)

// Mode represents what a session will do with the post on submit.
type Mode int

const (
	ModeCreate Mode = iota // New post, saved with create
	ModeEdit               // Existing post, saved with update
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Session holds one post being edited.
type Session struct {
	mu sync.Mutex

	id           string
	mode         Mode
	blogID       string      // Target post, set in edit mode and after a successful submit
	status       blog.Status // Status of the fetched post, empty in create mode
	title        string
	titleError   bool
	category     blog.Category
	content      json.RawMessage
	artistIDs    []string
	thumbnailURL string
	setlist      setlist.State

	openedAt    time.Time
	lastTouched time.Time
	closed      bool
}

// View is a read-only copy of a session.
type View struct {
	ID           string
	Mode         Mode
	BlogID       string
	Status       blog.Status
	Title        string
	TitleError   bool
	Category     blog.Category
	Content      json.RawMessage
	ArtistIDs    []string
	Setlist      setlist.State
	CanSaveDraft bool // New posts and drafts only; a published post stays published
	OpenedAt     time.Time
	LastTouched  time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:          id,
		mode:        ModeCreate,
		category:    blog.Categories()[0],
		content:     json.RawMessage("{}"),
		artistIDs:   []string{},
		setlist:     setlist.NewState(),
		openedAt:    now,
		lastTouched: now,
	}
}

// hydrate loads an existing post into the session.
func (s *Session) hydrate(p *blog.Post) {
	s.mode = ModeEdit
	s.blogID = p.ID
	s.status = p.Status
	s.title = p.Title
	s.category = p.Category
	if len(p.Content) > 0 {
		s.content = append(json.RawMessage(nil), p.Content...)
	}
	s.artistIDs = append([]string{}, p.ArtistIDs...)
	s.thumbnailURL = p.ThumbnailURL
	s.setlist = setlist.Hydrate(p.Setlist)
}

// apply runs fn under the session lock and returns the resulting view.
// Nothing is touched when fn fails.
func (s *Session) apply(now time.Time, fn func(s *Session) error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return View{}, ErrSessionNotFound
	}
	if err := fn(s); err != nil {
		return View{}, err
	}
	s.lastTouched = now
	return s.view(), nil
}

// View returns a copy of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	return View{
		ID:           s.id,
		Mode:         s.mode,
		BlogID:       s.blogID,
		Status:       s.status,
		Title:        s.title,
		TitleError:   s.titleError,
		Category:     s.category,
		Content:      append(json.RawMessage(nil), s.content...),
		ArtistIDs:    append([]string{}, s.artistIDs...),
		Setlist:      s.setlist,
		CanSaveDraft: s.canSaveDraft(),
		OpenedAt:     s.openedAt,
		LastTouched:  s.lastTouched,
	}
}

// canSaveDraft reports whether the post may be saved as a draft.
func (s *Session) canSaveDraft() bool {
	return s.mode == ModeCreate || s.status == blog.StatusDraft
}

// closeIfIdle closes the session when it was last touched before cutoff.
// A session busy with another operation is not idle and is left alone.
func (s *Session) closeIfIdle(cutoff time.Time) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	if !s.lastTouched.Before(cutoff) {
		return false
	}
	s.closed = true
	return true
}

// close marks the session as finished. Later operations fail.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// setTitle stores the title. A non-blank title clears the title error.
func (s *Session) setTitle(title string) {
	s.title = title
	if strings.TrimSpace(title) != "" {
		s.titleError = false
	}
}

// post builds the store payload for the given status.
func (s *Session) post(status blog.Status) *blog.Post {
	return &blog.Post{
		ID:           s.blogID,
		Title:        s.title,
		Content:      s.content,
		Status:       status,
		Category:     s.category,
		Setlist:      s.setlist.Serialize(),
		ArtistIDs:    append([]string{}, s.artistIDs...),
		ThumbnailURL: s.thumbnailURL,
	}
}
