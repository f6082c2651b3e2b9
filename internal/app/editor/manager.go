// Package editor provides the post editing session manager.
package editor

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/likelive/internal/app/rule"
	"github.com/osa030/likelive/internal/domain/artist"
	"github.com/osa030/likelive/internal/domain/blog"
	"github.com/osa030/likelive/internal/domain/setlist"
)

var (
	ErrSessionNotFound = errors.New("editing session not found")
	ErrInvalidPosition = errors.New("no track or encore section at this position")
	ErrInvalidContent  = errors.New("content is not a JSON document")
	ErrInvalidArtist   = errors.New("artist ID is required")
	ErrDraftNotAllowed = errors.New("only new posts and drafts can be saved as a draft")
)

// Store persists posts.
type Store interface {
	Fetch(ctx context.Context, id string) (*blog.Post, error)
	Create(ctx context.Context, p *blog.Post) (string, error)
	Update(ctx context.Context, id string, p *blog.Post) error
}

// Config represents session manager configuration.
type Config struct {
	SessionTTL    time.Duration // Idle time after which a session is dropped
	SweepInterval time.Duration // How often idle sessions are looked for
}

// Outcome is the result of a submission.
type Outcome struct {
	Accepted bool
	Codes    []string // Rejection codes, empty when accepted
	BlogID   string   // ID of the saved post, set when accepted
	View     View     // Session after the submission
}

// Manager manages editing sessions.
type Manager struct {
	store    Store
	chain    *rule.Chain
	sessions *Registry
	config   Config

	now func() time.Time
}

// NewManager creates a new session manager.
func NewManager(store Store, chain *rule.Chain, cfg Config) *Manager {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &Manager{
		store:    store,
		chain:    chain,
		sessions: NewRegistry(),
		config:   cfg,
		now:      time.Now,
	}
}

// Open starts a session for a new post.
func (m *Manager) Open() View {
	s := m.sessions.Open(m.now())
	zlog.Info().Msgf("editing session opened: id=%s mode=%s", s.id, ModeCreate)
	return s.View()
}

// OpenExisting starts a session for an existing post, loaded from the store.
func (m *Manager) OpenExisting(ctx context.Context, blogID string) (View, error) {
	p, err := m.store.Fetch(ctx, blogID)
	if err != nil {
		return View{}, errors.Wrapf(err, "failed to fetch blog %s", blogID)
	}

	s := m.sessions.Open(m.now())
	view, err := s.apply(m.now(), func(s *Session) error {
		s.hydrate(p)
		return nil
	})
	if err != nil {
		return View{}, err
	}

	zlog.Info().Msgf("editing session opened: id=%s mode=%s blog=%s tracks=%d",
		s.id, ModeEdit, blogID, p.Setlist.TrackCount())
	return view, nil
}

// AddMainTracks appends a batch of empty tracks to the main set.
// A full main set is left unchanged.
func (m *Manager) AddMainTracks(id string) (View, error) {
	return m.update(id, func(s *Session) error {
		s.setlist = s.setlist.AddMainTracks()
		return nil
	})
}

// AddEncoreTracks appends a batch of empty tracks to an encore section.
// A full section is left unchanged.
func (m *Manager) AddEncoreTracks(id string, section int) (View, error) {
	return m.update(id, func(s *Session) error {
		if !s.setlist.HasSection(section) {
			return errors.Wrapf(ErrInvalidPosition, "encore section %d", section)
		}
		s.setlist = s.setlist.AddEncoreTracks(section)
		return nil
	})
}

// AddEncoreSection appends an encore section.
// Nothing changes once the section limit is reached.
func (m *Manager) AddEncoreSection(id string) (View, error) {
	return m.update(id, func(s *Session) error {
		s.setlist = s.setlist.AddEncoreSection()
		return nil
	})
}

// RemoveEncoreSection drops the last encore section.
func (m *Manager) RemoveEncoreSection(id string) (View, error) {
	return m.update(id, func(s *Session) error {
		s.setlist = s.setlist.RemoveEncoreSection()
		return nil
	})
}

// SetTrackName overwrites the name of one track.
func (m *Manager) SetTrackName(id string, target setlist.Target, index int, name string) (View, error) {
	return m.update(id, func(s *Session) error {
		if !s.setlist.Has(target, index) {
			return errors.Wrapf(ErrInvalidPosition, "%s track %d", target, index)
		}
		s.setlist = s.setlist.SetTrackName(target, index, name)
		return nil
	})
}

// SetTitle sets the post title.
func (m *Manager) SetTitle(id, title string) (View, error) {
	return m.update(id, func(s *Session) error {
		s.setTitle(title)
		return nil
	})
}

// SetCategory sets the post category.
func (m *Manager) SetCategory(id string, category blog.Category) (View, error) {
	return m.update(id, func(s *Session) error {
		s.category = category
		return nil
	})
}

// SetContent replaces the rich-text document of the post.
func (m *Manager) SetContent(id string, content json.RawMessage) (View, error) {
	if !json.Valid(content) {
		return View{}, ErrInvalidContent
	}
	return m.update(id, func(s *Session) error {
		s.content = append(json.RawMessage(nil), content...)
		return nil
	})
}

// AddArtist tags the post with an artist. Adding a tagged artist again is a
// no-op.
func (m *Manager) AddArtist(id, artistID string) (View, error) {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return View{}, ErrInvalidArtist
	}
	return m.update(id, func(s *Session) error {
		if !artist.ContainsID(s.artistIDs, artistID) {
			s.artistIDs = append(s.artistIDs, artistID)
		}
		return nil
	})
}

// RemoveArtist removes an artist tag.
func (m *Manager) RemoveArtist(id, artistID string) (View, error) {
	return m.update(id, func(s *Session) error {
		kept := make([]string, 0, len(s.artistIDs))
		for _, a := range s.artistIDs {
			if a != artistID {
				kept = append(kept, a)
			}
		}
		s.artistIDs = kept
		return nil
	})
}

// SaveDraft validates the post and saves it as a draft. A post that is
// already published cannot go back to draft.
func (m *Manager) SaveDraft(ctx context.Context, id string) (Outcome, error) {
	return m.submit(ctx, id, rule.IntentDraft, blog.StatusDraft)
}

// Publish validates the post and publishes it.
func (m *Manager) Publish(ctx context.Context, id string) (Outcome, error) {
	return m.submit(ctx, id, rule.IntentPublish, blog.StatusPublished)
}

// Discard abandons a session without saving anything.
func (m *Manager) Discard(id string) error {
	s, err := m.sessions.Get(id)
	if err != nil {
		return err
	}
	m.sessions.Remove(id)
	s.close()
	zlog.Info().Msgf("editing session discarded: id=%s", id)
	return nil
}

// Snapshot returns the current state of a session.
func (m *Manager) Snapshot(id string) (View, error) {
	s, err := m.sessions.Get(id)
	if err != nil {
		return View{}, err
	}
	return s.View(), nil
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	return m.sessions.Count()
}

// Start runs the idle session sweeper until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.config.SweepInterval)
		defer ticker.Stop()

		zlog.Info().Msgf("session sweeper started: ttl=%v interval=%v", m.config.SessionTTL, m.config.SweepInterval)
		for {
			select {
			case <-ctx.Done():
				zlog.Info().Msg("session sweeper stopped")
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
}

// sweep drops sessions idle for longer than the configured TTL.
func (m *Manager) sweep() int {
	removed := m.sessions.RemoveIdle(m.now().Add(-m.config.SessionTTL))
	for _, id := range removed {
		zlog.Info().Msgf("editing session expired: id=%s", id)
	}
	return len(removed)
}

// update applies fn to the session with the given ID.
func (m *Manager) update(id string, fn func(s *Session) error) (View, error) {
	s, err := m.sessions.Get(id)
	if err != nil {
		return View{}, err
	}
	view, err := s.apply(m.now(), fn)
	if err != nil {
		return View{}, err
	}
	zlog.Debug().Msgf("session %s: main=%d encore=%d", id,
		len(view.Setlist.MainSet), len(view.Setlist.EncoreSections))
	return view, nil
}

// submit validates the session for intent and, when every rule accepts,
// saves the post with the given status and closes the session.
// A rejected submission keeps the session and its error flags.
func (m *Manager) submit(ctx context.Context, id string, intent rule.Intent, status blog.Status) (Outcome, error) {
	s, err := m.sessions.Get(id)
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	_, err = s.apply(m.now(), func(s *Session) error {
		if intent == rule.IntentDraft && !s.canSaveDraft() {
			return errors.Wrapf(ErrDraftNotAllowed, "blog %s is %s", s.blogID, s.status)
		}
		s.setlist = s.setlist.Validate()

		verdict := m.chain.Execute(ctx, intent, rule.Draft{Title: s.title, Setlist: s.setlist})
		s.titleError = hasTitleCode(verdict.Codes)
		if !verdict.Accepted {
			zlog.Info().Msgf("submission rejected: id=%s intent=%s codes=%v", s.id, intent, verdict.Codes)
			out = Outcome{Codes: verdict.Codes, View: s.view()}
			return nil
		}

		blogID, err := m.save(ctx, s, status)
		if err != nil {
			zlog.Error().Err(err).Msgf("failed to save blog: id=%s intent=%s", s.id, intent)
			return err
		}

		s.blogID = blogID
		s.status = status
		s.setlist = s.setlist.ClearErrors()
		s.closed = true
		out = Outcome{Accepted: true, Codes: []string{}, BlogID: blogID, View: s.view()}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	if out.Accepted {
		m.sessions.Remove(id)
		zlog.Info().Msgf("blog saved: session=%s blog=%s status=%s", id, out.BlogID, status)
	}
	return out, nil
}

// save creates or updates the post depending on the session mode.
func (m *Manager) save(ctx context.Context, s *Session, status blog.Status) (string, error) {
	p := s.post(status)
	if s.mode == ModeEdit {
		if err := m.store.Update(ctx, s.blogID, p); err != nil {
			return "", errors.Wrapf(err, "failed to update blog %s", s.blogID)
		}
		return s.blogID, nil
	}

	blogID, err := m.store.Create(ctx, p)
	if err != nil {
		return "", errors.Wrap(err, "failed to create blog")
	}
	return blogID, nil
}

func hasTitleCode(codes []string) bool {
	for _, c := range codes {
		if c == "title_required" || c == "title_too_long" {
			return true
		}
	}
	return false
}
