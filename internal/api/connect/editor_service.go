// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	editorv1 "github.com/osa030/likelive/internal/api/editorv1"
	"github.com/osa030/likelive/internal/app/editor"
	"github.com/osa030/likelive/internal/app/rule"
	"github.com/osa030/likelive/internal/domain/artist"
	"github.com/osa030/likelive/internal/domain/blog"
	"github.com/osa030/likelive/internal/domain/setlist"
	"github.com/osa030/likelive/internal/infra/config"
)

// ArtistSearcher looks up artists by name.
type ArtistSearcher interface {
	SearchArtists(ctx context.Context, query string, limit int) ([]artist.Artist, error)
}

// TrackSuggester lists popular track names of an artist.
type TrackSuggester interface {
	TopTrackNames(ctx context.Context, artistName string, limit int) ([]string, error)
}

// EditorService implements the EditorService RPC.
type EditorService struct {
	editor    *editor.Manager
	chain     *rule.Chain
	config    *config.Config
	artists   ArtistSearcher // nil when artist search is not configured
	suggester TrackSuggester // nil when track suggestions are not configured
}

// NewEditorService creates a new EditorService.
func NewEditorService(mgr *editor.Manager, chain *rule.Chain, cfg *config.Config, artists ArtistSearcher, suggester TrackSuggester) *EditorService {
	return &EditorService{
		editor:    mgr,
		chain:     chain,
		config:    cfg,
		artists:   artists,
		suggester: suggester,
	}
}

// Ensure EditorService implements the interface.
var _ editorv1.EditorServiceHandler = (*EditorService)(nil)

// OpenSession opens a session for a new post, or for an existing one when a
// blog ID is given.
func (s *EditorService) OpenSession(
	ctx context.Context,
	req *connect.Request[editorv1.OpenSessionRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	if req.Msg.BlogId == "" {
		return sessionResponse(s.editor.Open(), nil)
	}
	return sessionResponse(s.editor.OpenExisting(ctx, req.Msg.BlogId))
}

// GetSession returns the current session state.
func (s *EditorService) GetSession(
	ctx context.Context,
	req *connect.Request[editorv1.SessionRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	return sessionResponse(s.editor.Snapshot(req.Msg.SessionId))
}

// AddMainTracks appends a batch of empty main set tracks.
func (s *EditorService) AddMainTracks(
	ctx context.Context,
	req *connect.Request[editorv1.SessionRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	return sessionResponse(s.editor.AddMainTracks(req.Msg.SessionId))
}

// AddEncoreTracks appends a batch of empty tracks to an encore section.
func (s *EditorService) AddEncoreTracks(
	ctx context.Context,
	req *connect.Request[editorv1.AddEncoreTracksRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	return sessionResponse(s.editor.AddEncoreTracks(req.Msg.SessionId, int(req.Msg.Section)))
}

// AddEncoreSection appends an encore section.
func (s *EditorService) AddEncoreSection(
	ctx context.Context,
	req *connect.Request[editorv1.SessionRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	return sessionResponse(s.editor.AddEncoreSection(req.Msg.SessionId))
}

// RemoveEncoreSection removes the last encore section.
func (s *EditorService) RemoveEncoreSection(
	ctx context.Context,
	req *connect.Request[editorv1.SessionRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	return sessionResponse(s.editor.RemoveEncoreSection(req.Msg.SessionId))
}

// SetTrackName sets the name of one track.
func (s *EditorService) SetTrackName(
	ctx context.Context,
	req *connect.Request[editorv1.SetTrackNameRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	target := setlist.Main()
	if req.Msg.Encore {
		target = setlist.Encore(int(req.Msg.Section))
	}
	return sessionResponse(s.editor.SetTrackName(req.Msg.SessionId, target, int(req.Msg.Index), req.Msg.TrackName))
}

// SetTitle sets the post title.
func (s *EditorService) SetTitle(
	ctx context.Context,
	req *connect.Request[editorv1.SetTitleRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	return sessionResponse(s.editor.SetTitle(req.Msg.SessionId, req.Msg.Title))
}

// SetCategory sets the post category.
func (s *EditorService) SetCategory(
	ctx context.Context,
	req *connect.Request[editorv1.SetCategoryRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	category, err := blog.ParseCategory(req.Msg.Category)
	if err != nil {
		return nil, toConnectError(err)
	}
	return sessionResponse(s.editor.SetCategory(req.Msg.SessionId, category))
}

// SetContent replaces the rich-text document.
func (s *EditorService) SetContent(
	ctx context.Context,
	req *connect.Request[editorv1.SetContentRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	return sessionResponse(s.editor.SetContent(req.Msg.SessionId, req.Msg.Content))
}

// AddArtist tags the post with an artist.
func (s *EditorService) AddArtist(
	ctx context.Context,
	req *connect.Request[editorv1.ArtistRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	return sessionResponse(s.editor.AddArtist(req.Msg.SessionId, req.Msg.ArtistId))
}

// RemoveArtist removes an artist tag.
func (s *EditorService) RemoveArtist(
	ctx context.Context,
	req *connect.Request[editorv1.ArtistRequest],
) (*connect.Response[editorv1.SessionResponse], error) {
	return sessionResponse(s.editor.RemoveArtist(req.Msg.SessionId, req.Msg.ArtistId))
}

// SaveDraft validates and saves the post as a draft.
func (s *EditorService) SaveDraft(
	ctx context.Context,
	req *connect.Request[editorv1.SessionRequest],
) (*connect.Response[editorv1.SubmitResponse], error) {
	out, err := s.editor.SaveDraft(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(s.submitResponse(out)), nil
}

// Publish validates and publishes the post.
func (s *EditorService) Publish(
	ctx context.Context,
	req *connect.Request[editorv1.SessionRequest],
) (*connect.Response[editorv1.SubmitResponse], error) {
	out, err := s.editor.Publish(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(s.submitResponse(out)), nil
}

// DiscardSession abandons a session.
func (s *EditorService) DiscardSession(
	ctx context.Context,
	req *connect.Request[editorv1.SessionRequest],
) (*connect.Response[editorv1.DiscardSessionResponse], error) {
	if err := s.editor.Discard(req.Msg.SessionId); err != nil {
		return connect.NewResponse(&editorv1.DiscardSessionResponse{
			Success: false,
			Message: err.Error(),
		}), nil
	}

	return connect.NewResponse(&editorv1.DiscardSessionResponse{
		Success: true,
		Message: "Session discarded",
	}), nil
}

// SearchArtists searches artists by name.
func (s *EditorService) SearchArtists(
	ctx context.Context,
	req *connect.Request[editorv1.SearchArtistsRequest],
) (*connect.Response[editorv1.SearchArtistsResponse], error) {
	if s.artists == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("artist search is not configured"))
	}

	found, err := s.artists.SearchArtists(ctx, req.Msg.Query, int(req.Msg.Limit))
	if err != nil {
		zlog.Error().Err(err).Msgf("artist search failed: query=%q", req.Msg.Query)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	artists := make([]*editorv1.Artist, len(found))
	for i, a := range found {
		artists[i] = &editorv1.Artist{
			Id:         a.ID,
			Name:       a.Name,
			Genres:     a.Genres,
			ImageUrl:   a.ImageURL,
			Url:        a.URL,
			Popularity: int32(a.Popularity),
		}
	}
	return connect.NewResponse(&editorv1.SearchArtistsResponse{Artists: artists}), nil
}

// SuggestTracks lists popular track names of an artist.
func (s *EditorService) SuggestTracks(
	ctx context.Context,
	req *connect.Request[editorv1.SuggestTracksRequest],
) (*connect.Response[editorv1.SuggestTracksResponse], error) {
	if s.suggester == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("track suggestions are not configured"))
	}

	names, err := s.suggester.TopTrackNames(ctx, req.Msg.Artist, int(req.Msg.Limit))
	if err != nil {
		zlog.Error().Err(err).Msgf("track suggestion failed: artist=%q", req.Msg.Artist)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	return connect.NewResponse(&editorv1.SuggestTracksResponse{TrackNames: names}), nil
}

// ListRules lists the active submission rules.
func (s *EditorService) ListRules(
	ctx context.Context,
	req *connect.Request[editorv1.ListRulesRequest],
) (*connect.Response[editorv1.ListRulesResponse], error) {
	rules := s.chain.Rules()
	infos := make([]*editorv1.RuleInfo, len(rules))
	for i, r := range rules {
		infos[i] = &editorv1.RuleInfo{
			Name:        r.Name(),
			Description: r.Description(),
			Codes:       r.ReturnCodes(),
		}
	}
	return connect.NewResponse(&editorv1.ListRulesResponse{Rules: infos}), nil
}

func (s *EditorService) submitResponse(out editor.Outcome) *editorv1.SubmitResponse {
	messages := make([]string, 0, len(out.Codes))
	if out.Accepted {
		messages = append(messages, s.config.GetMessage("success"))
	}
	for _, code := range out.Codes {
		messages = append(messages, s.config.GetMessage(code))
	}

	codes := out.Codes
	if codes == nil {
		codes = []string{}
	}
	return &editorv1.SubmitResponse{
		Accepted: out.Accepted,
		Codes:    codes,
		Messages: messages,
		BlogId:   out.BlogID,
		Session:  toSession(out.View),
	}
}

func sessionResponse(view editor.View, err error) (*connect.Response[editorv1.SessionResponse], error) {
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&editorv1.SessionResponse{Session: toSession(view)}), nil
}

// toConnectError maps domain errors to Connect error codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, editor.ErrSessionNotFound), errors.Is(err, blog.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, editor.ErrInvalidPosition),
		errors.Is(err, editor.ErrInvalidContent),
		errors.Is(err, editor.ErrInvalidArtist),
		errors.Is(err, blog.ErrUnknownCategory):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, editor.ErrDraftNotAllowed):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		zlog.Error().Err(err).Msg("editor request failed")
		return connect.NewError(connect.CodeInternal, err)
	}
}
