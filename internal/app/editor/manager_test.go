package editor

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/likelive/internal/app/rule"
	"github.com/osa030/likelive/internal/domain/blog"
	"github.com/osa030/likelive/internal/domain/setlist"
)

// fakeStore keeps posts in memory.
type fakeStore struct {
	posts   map[string]*blog.Post
	created []*blog.Post
	updated []*blog.Post
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{posts: make(map[string]*blog.Post)}
}

func (f *fakeStore) Fetch(ctx context.Context, id string) (*blog.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, blog.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) Create(ctx context.Context, p *blog.Post) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, p)
	return "new-1", nil
}

func (f *fakeStore) Update(ctx context.Context, id string, p *blog.Post) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, p)
	return nil
}

// blockingStore holds Create until release is closed.
type blockingStore struct {
	*fakeStore
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) Create(ctx context.Context, p *blog.Post) (string, error) {
	close(b.entered)
	<-b.release
	return b.fakeStore.Create(ctx, p)
}

// testClock is a settable clock safe for concurrent use.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()

	chain, err := rule.BuildChain(func(name string) (bool, map[string]any) {
		return true, nil
	})
	require.NoError(t, err)
	return NewManager(store, chain, Config{SessionTTL: time.Hour, SweepInterval: time.Minute})
}

func TestManager_Open(t *testing.T) {
	m := newTestManager(t, newFakeStore())

	view := m.Open()
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, ModeCreate, view.Mode)
	assert.Equal(t, blog.CategoryDiary, view.Category)
	assert.Empty(t, view.Setlist.MainSet)
	assert.Empty(t, view.Setlist.EncoreSections)
	assert.Equal(t, 1, m.Count())
}

func TestManager_OpenExisting(t *testing.T) {
	store := newFakeStore()
	store.posts["42"] = &blog.Post{
		ID:       "42",
		Title:    "Hall show",
		Status:   blog.StatusPublished,
		Category: blog.CategoryReport,
		Setlist: setlist.Setlist{
			MainSetList:    []setlist.Track{{TrackNumber: 1, TrackName: "A"}, {TrackNumber: 2, TrackName: "B"}},
			EncoreSections: [][]setlist.Track{{{TrackNumber: 1, TrackName: "C"}}},
		},
		ArtistIDs:    []string{"artist-1"},
		ThumbnailURL: "https://cdn.example/t.jpg",
	}
	m := newTestManager(t, store)

	view, err := m.OpenExisting(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, ModeEdit, view.Mode)
	assert.Equal(t, "42", view.BlogID)
	assert.Equal(t, blog.StatusPublished, view.Status)
	assert.Equal(t, "Hall show", view.Title)
	assert.Len(t, view.Setlist.MainSet, 2)
	assert.Equal(t, []bool{false, false}, view.Setlist.Errors.MainSet)
	assert.Equal(t, []string{"artist-1"}, view.ArtistIDs)
}

func TestManager_OpenExisting_NotFound(t *testing.T) {
	m := newTestManager(t, newFakeStore())

	_, err := m.OpenExisting(context.Background(), "missing")
	assert.True(t, errors.Is(err, blog.ErrNotFound))
	assert.Equal(t, 0, m.Count())
}

func TestManager_SetlistOperations(t *testing.T) {
	m := newTestManager(t, newFakeStore())
	id := m.Open().ID

	view, err := m.AddMainTracks(id)
	require.NoError(t, err)
	assert.Len(t, view.Setlist.MainSet, setlist.MainBatch)

	view, err = m.AddEncoreSection(id)
	require.NoError(t, err)
	require.Len(t, view.Setlist.EncoreSections, 1)

	view, err = m.AddEncoreTracks(id, 0)
	require.NoError(t, err)
	assert.Len(t, view.Setlist.EncoreSections[0], 2*setlist.EncoreBatch)

	view, err = m.SetTrackName(id, setlist.Encore(0), 1, "Encore song")
	require.NoError(t, err)
	assert.Equal(t, "Encore song", view.Setlist.EncoreSections[0][1].TrackName)

	view, err = m.RemoveEncoreSection(id)
	require.NoError(t, err)
	assert.Empty(t, view.Setlist.EncoreSections)
}

func TestManager_InvalidPosition(t *testing.T) {
	m := newTestManager(t, newFakeStore())
	id := m.Open().ID

	_, err := m.AddEncoreTracks(id, 0)
	assert.True(t, errors.Is(err, ErrInvalidPosition))

	_, err = m.SetTrackName(id, setlist.Main(), 0, "x")
	assert.True(t, errors.Is(err, ErrInvalidPosition))

	_, err = m.SetTrackName(id, setlist.Encore(3), 0, "x")
	assert.True(t, errors.Is(err, ErrInvalidPosition))
}

func TestManager_UnknownSession(t *testing.T) {
	m := newTestManager(t, newFakeStore())

	_, err := m.AddMainTracks("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	_, err = m.Snapshot("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	_, err = m.Publish(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	assert.True(t, errors.Is(m.Discard("missing"), ErrSessionNotFound))
}

func TestManager_Artists(t *testing.T) {
	m := newTestManager(t, newFakeStore())
	id := m.Open().ID

	_, err := m.AddArtist(id, "a1")
	require.NoError(t, err)
	_, err = m.AddArtist(id, "a2")
	require.NoError(t, err)
	view, err := m.AddArtist(id, "a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, view.ArtistIDs)

	view, err = m.RemoveArtist(id, "a1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, view.ArtistIDs)

	_, err = m.AddArtist(id, "  ")
	assert.True(t, errors.Is(err, ErrInvalidArtist))
}

func TestManager_SetContent(t *testing.T) {
	m := newTestManager(t, newFakeStore())
	id := m.Open().ID

	view, err := m.SetContent(id, json.RawMessage(`{"type":"doc","content":[]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"doc","content":[]}`, string(view.Content))

	_, err = m.SetContent(id, json.RawMessage(`{"type":`))
	assert.True(t, errors.Is(err, ErrInvalidContent))
}

func TestManager_Publish_Rejected(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(t, store)
	id := m.Open().ID

	_, err := m.AddMainTracks(id)
	require.NoError(t, err)
	_, err = m.SetTrackName(id, setlist.Main(), 2, "Third")
	require.NoError(t, err)

	out, err := m.Publish(context.Background(), id)
	require.NoError(t, err)

	assert.False(t, out.Accepted)
	assert.ElementsMatch(t, []string{"setlist_gap", "title_required"}, out.Codes)
	assert.True(t, out.View.TitleError)
	assert.Equal(t, []bool{false, true, false, false, false}, out.View.Setlist.Errors.MainSet)
	assert.Empty(t, store.created)

	// The session stays open with its flags
	view, err := m.Snapshot(id)
	require.NoError(t, err)
	assert.True(t, view.Setlist.Errors.HasGap())

	// Fixing the title clears its flag
	view, err = m.SetTitle(id, "Tour final")
	require.NoError(t, err)
	assert.False(t, view.TitleError)
}

func TestManager_SaveDraft_Untitled(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(t, store)
	id := m.Open().ID

	_, err := m.AddMainTracks(id)
	require.NoError(t, err)
	_, err = m.SetTrackName(id, setlist.Main(), 0, "Opener")
	require.NoError(t, err)
	_, err = m.AddEncoreSection(id)
	require.NoError(t, err)
	_, err = m.SetTrackName(id, setlist.Encore(0), 0, "Encore")
	require.NoError(t, err)

	out, err := m.SaveDraft(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, out.Accepted)
	assert.Equal(t, "new-1", out.BlogID)
	require.Len(t, store.created, 1)

	p := store.created[0]
	assert.Equal(t, blog.StatusDraft, p.Status)
	assert.Equal(t, []setlist.Track{{TrackNumber: 1, TrackName: "Opener"}}, p.Setlist.MainSetList)
	assert.Equal(t, [][]setlist.Track{{{TrackNumber: 1, TrackName: "Encore"}}}, p.Setlist.EncoreSections)

	// A successful submit closes the session
	_, err = m.Snapshot(id)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.Equal(t, 0, m.Count())
}

func TestManager_SaveDraft_EmptyEncoreRejected(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(t, store)
	id := m.Open().ID

	_, err := m.AddEncoreSection(id)
	require.NoError(t, err)

	out, err := m.SaveDraft(context.Background(), id)
	require.NoError(t, err)

	assert.False(t, out.Accepted)
	assert.Equal(t, []string{"encore_section_empty"}, out.Codes)
	assert.Equal(t, []bool{true, true}, out.View.Setlist.Errors.EncoreSections[0].Tracks)
	assert.False(t, out.View.TitleError)
}

func TestManager_Publish_UpdatesExisting(t *testing.T) {
	store := newFakeStore()
	store.posts["7"] = &blog.Post{
		ID:           "7",
		Title:        "Old title",
		Status:       blog.StatusDraft,
		Category:     blog.CategoryOther,
		ThumbnailURL: "https://cdn.example/7.jpg",
	}
	m := newTestManager(t, store)

	view, err := m.OpenExisting(context.Background(), "7")
	require.NoError(t, err)
	_, err = m.SetCategory(view.ID, blog.CategoryReport)
	require.NoError(t, err)

	out, err := m.Publish(context.Background(), view.ID)
	require.NoError(t, err)
	require.True(t, out.Accepted)

	assert.Equal(t, "7", out.BlogID)
	assert.Empty(t, store.created)
	require.Len(t, store.updated, 1)
	assert.Equal(t, blog.StatusPublished, store.updated[0].Status)
	assert.Equal(t, blog.CategoryReport, store.updated[0].Category)
	assert.Equal(t, "https://cdn.example/7.jpg", store.updated[0].ThumbnailURL)
}

func TestManager_SaveDraft_Eligibility(t *testing.T) {
	tests := []struct {
		name    string
		status  blog.Status // empty opens a new post
		wantErr bool
	}{
		{name: "new post", wantErr: false},
		{name: "existing draft", status: blog.StatusDraft, wantErr: false},
		{name: "published post", status: blog.StatusPublished, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			m := newTestManager(t, store)

			var view View
			if tt.status == "" {
				view = m.Open()
			} else {
				store.posts["9"] = &blog.Post{ID: "9", Title: "Live", Status: tt.status, Category: blog.CategoryDiary}
				var err error
				view, err = m.OpenExisting(context.Background(), "9")
				require.NoError(t, err)
			}
			assert.Equal(t, !tt.wantErr, view.CanSaveDraft)

			out, err := m.SaveDraft(context.Background(), view.ID)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrDraftNotAllowed))
				assert.Empty(t, store.updated)
				assert.Equal(t, tt.status, store.posts["9"].Status)

				snap, err := m.Snapshot(view.ID)
				require.NoError(t, err)
				assert.Equal(t, tt.status, snap.Status)
				return
			}
			require.NoError(t, err)
			assert.True(t, out.Accepted)
			assert.Equal(t, 0, m.Count())
		})
	}
}

func TestManager_Submit_StoreFailureKeepsSession(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("backend down")
	m := newTestManager(t, store)
	id := m.Open().ID

	_, err := m.SetTitle(id, "Title")
	require.NoError(t, err)

	_, err = m.Publish(context.Background(), id)
	require.Error(t, err)

	_, err = m.Snapshot(id)
	assert.NoError(t, err)
}

func TestManager_Discard(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(t, store)
	id := m.Open().ID

	require.NoError(t, m.Discard(id))
	assert.Equal(t, 0, m.Count())
	assert.Empty(t, store.created)

	_, err := m.AddMainTracks(id)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestManager_Sweep(t *testing.T) {
	m := newTestManager(t, newFakeStore())

	now := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	idle := m.Open().ID
	active := m.Open().ID

	now = now.Add(50 * time.Minute)
	_, err := m.AddMainTracks(active)
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	assert.Equal(t, 1, m.sweep())

	_, err = m.Snapshot(idle)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	_, err = m.Snapshot(active)
	assert.NoError(t, err)
}

func TestManager_Sweep_DoesNotWaitForBusySession(t *testing.T) {
	store := &blockingStore{
		fakeStore: newFakeStore(),
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	var releaseOnce sync.Once
	t.Cleanup(func() { releaseOnce.Do(func() { close(store.release) }) })

	m := newTestManager(t, store)
	clock := &testClock{now: time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)}
	m.now = clock.Now

	saving := m.Open().ID
	other := m.Open().ID
	_, err := m.SetTitle(saving, "Tour final")
	require.NoError(t, err)

	done := make(chan Outcome, 1)
	go func() {
		out, _ := m.Publish(context.Background(), saving)
		done <- out
	}()
	<-store.entered

	clock.Advance(2 * time.Hour)
	_, err = m.AddMainTracks(other)
	require.NoError(t, err)

	swept := make(chan int, 1)
	go func() { swept <- m.sweep() }()
	select {
	case n := <-swept:
		assert.Equal(t, 0, n)
	case <-time.After(time.Second):
		t.Fatal("sweep waited for a session that is saving")
	}

	_, err = m.Snapshot(other)
	assert.NoError(t, err)

	releaseOnce.Do(func() { close(store.release) })
	out := <-done
	assert.True(t, out.Accepted)
	assert.Equal(t, "new-1", out.BlogID)
}

func TestManager_Start_StopsWithContext(t *testing.T) {
	m := NewManager(newFakeStore(), rule.NewChain(), Config{SessionTTL: time.Millisecond, SweepInterval: time.Millisecond})
	m.Open()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	assert.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)
}
