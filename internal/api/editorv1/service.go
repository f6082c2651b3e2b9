package editorv1

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// EditorServiceName is the fully-qualified name of the EditorService service.
const EditorServiceName = "likelive.editor.v1.EditorService"

// Procedure names of the EditorService RPCs.
const (
	EditorServiceOpenSessionProcedure         = "/" + EditorServiceName + "/OpenSession"
	EditorServiceGetSessionProcedure          = "/" + EditorServiceName + "/GetSession"
	EditorServiceAddMainTracksProcedure       = "/" + EditorServiceName + "/AddMainTracks"
	EditorServiceAddEncoreTracksProcedure     = "/" + EditorServiceName + "/AddEncoreTracks"
	EditorServiceAddEncoreSectionProcedure    = "/" + EditorServiceName + "/AddEncoreSection"
	EditorServiceRemoveEncoreSectionProcedure = "/" + EditorServiceName + "/RemoveEncoreSection"
	EditorServiceSetTrackNameProcedure        = "/" + EditorServiceName + "/SetTrackName"
	EditorServiceSetTitleProcedure            = "/" + EditorServiceName + "/SetTitle"
	EditorServiceSetCategoryProcedure         = "/" + EditorServiceName + "/SetCategory"
	EditorServiceSetContentProcedure          = "/" + EditorServiceName + "/SetContent"
	EditorServiceAddArtistProcedure           = "/" + EditorServiceName + "/AddArtist"
	EditorServiceRemoveArtistProcedure        = "/" + EditorServiceName + "/RemoveArtist"
	EditorServiceSaveDraftProcedure           = "/" + EditorServiceName + "/SaveDraft"
	EditorServicePublishProcedure             = "/" + EditorServiceName + "/Publish"
	EditorServiceDiscardSessionProcedure      = "/" + EditorServiceName + "/DiscardSession"
	EditorServiceSearchArtistsProcedure       = "/" + EditorServiceName + "/SearchArtists"
	EditorServiceSuggestTracksProcedure       = "/" + EditorServiceName + "/SuggestTracks"
	EditorServiceListRulesProcedure           = "/" + EditorServiceName + "/ListRules"
)

// EditorServiceHandler is implemented by the EditorService server.
type EditorServiceHandler interface {
	// OpenSession opens an editing session.
	OpenSession(context.Context, *connect.Request[OpenSessionRequest]) (*connect.Response[SessionResponse], error)
	// GetSession returns the current session state.
	GetSession(context.Context, *connect.Request[SessionRequest]) (*connect.Response[SessionResponse], error)
	// AddMainTracks appends a batch of empty main set tracks.
	AddMainTracks(context.Context, *connect.Request[SessionRequest]) (*connect.Response[SessionResponse], error)
	// AddEncoreTracks appends a batch of empty tracks to an encore section.
	AddEncoreTracks(context.Context, *connect.Request[AddEncoreTracksRequest]) (*connect.Response[SessionResponse], error)
	// AddEncoreSection appends an encore section.
	AddEncoreSection(context.Context, *connect.Request[SessionRequest]) (*connect.Response[SessionResponse], error)
	// RemoveEncoreSection removes the last encore section.
	RemoveEncoreSection(context.Context, *connect.Request[SessionRequest]) (*connect.Response[SessionResponse], error)
	// SetTrackName sets the name of one track.
	SetTrackName(context.Context, *connect.Request[SetTrackNameRequest]) (*connect.Response[SessionResponse], error)
	// SetTitle sets the post title.
	SetTitle(context.Context, *connect.Request[SetTitleRequest]) (*connect.Response[SessionResponse], error)
	// SetCategory sets the post category.
	SetCategory(context.Context, *connect.Request[SetCategoryRequest]) (*connect.Response[SessionResponse], error)
	// SetContent replaces the rich-text document.
	SetContent(context.Context, *connect.Request[SetContentRequest]) (*connect.Response[SessionResponse], error)
	// AddArtist tags the post with an artist.
	AddArtist(context.Context, *connect.Request[ArtistRequest]) (*connect.Response[SessionResponse], error)
	// RemoveArtist removes an artist tag.
	RemoveArtist(context.Context, *connect.Request[ArtistRequest]) (*connect.Response[SessionResponse], error)
	// SaveDraft validates and saves the post as a draft.
	SaveDraft(context.Context, *connect.Request[SessionRequest]) (*connect.Response[SubmitResponse], error)
	// Publish validates and publishes the post.
	Publish(context.Context, *connect.Request[SessionRequest]) (*connect.Response[SubmitResponse], error)
	// DiscardSession abandons a session.
	DiscardSession(context.Context, *connect.Request[SessionRequest]) (*connect.Response[DiscardSessionResponse], error)
	// SearchArtists searches artists by name.
	SearchArtists(context.Context, *connect.Request[SearchArtistsRequest]) (*connect.Response[SearchArtistsResponse], error)
	// SuggestTracks lists popular track names of an artist.
	SuggestTracks(context.Context, *connect.Request[SuggestTracksRequest]) (*connect.Response[SuggestTracksResponse], error)
	// ListRules lists the active submission rules.
	ListRules(context.Context, *connect.Request[ListRulesRequest]) (*connect.Response[ListRulesResponse], error)
}

// NewEditorServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself. The JSON codec is always registered.
func NewEditorServiceHandler(svc EditorServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(Codec{}))
	handlers := map[string]http.Handler{
		EditorServiceOpenSessionProcedure:         connect.NewUnaryHandler(EditorServiceOpenSessionProcedure, svc.OpenSession, opts...),
		EditorServiceGetSessionProcedure:          connect.NewUnaryHandler(EditorServiceGetSessionProcedure, svc.GetSession, opts...),
		EditorServiceAddMainTracksProcedure:       connect.NewUnaryHandler(EditorServiceAddMainTracksProcedure, svc.AddMainTracks, opts...),
		EditorServiceAddEncoreTracksProcedure:     connect.NewUnaryHandler(EditorServiceAddEncoreTracksProcedure, svc.AddEncoreTracks, opts...),
		EditorServiceAddEncoreSectionProcedure:    connect.NewUnaryHandler(EditorServiceAddEncoreSectionProcedure, svc.AddEncoreSection, opts...),
		EditorServiceRemoveEncoreSectionProcedure: connect.NewUnaryHandler(EditorServiceRemoveEncoreSectionProcedure, svc.RemoveEncoreSection, opts...),
		EditorServiceSetTrackNameProcedure:        connect.NewUnaryHandler(EditorServiceSetTrackNameProcedure, svc.SetTrackName, opts...),
		EditorServiceSetTitleProcedure:            connect.NewUnaryHandler(EditorServiceSetTitleProcedure, svc.SetTitle, opts...),
		EditorServiceSetCategoryProcedure:         connect.NewUnaryHandler(EditorServiceSetCategoryProcedure, svc.SetCategory, opts...),
		EditorServiceSetContentProcedure:          connect.NewUnaryHandler(EditorServiceSetContentProcedure, svc.SetContent, opts...),
		EditorServiceAddArtistProcedure:           connect.NewUnaryHandler(EditorServiceAddArtistProcedure, svc.AddArtist, opts...),
		EditorServiceRemoveArtistProcedure:        connect.NewUnaryHandler(EditorServiceRemoveArtistProcedure, svc.RemoveArtist, opts...),
		EditorServiceSaveDraftProcedure:           connect.NewUnaryHandler(EditorServiceSaveDraftProcedure, svc.SaveDraft, opts...),
		EditorServicePublishProcedure:             connect.NewUnaryHandler(EditorServicePublishProcedure, svc.Publish, opts...),
		EditorServiceDiscardSessionProcedure:      connect.NewUnaryHandler(EditorServiceDiscardSessionProcedure, svc.DiscardSession, opts...),
		EditorServiceSearchArtistsProcedure:       connect.NewUnaryHandler(EditorServiceSearchArtistsProcedure, svc.SearchArtists, opts...),
		EditorServiceSuggestTracksProcedure:       connect.NewUnaryHandler(EditorServiceSuggestTracksProcedure, svc.SuggestTracks, opts...),
		EditorServiceListRulesProcedure:           connect.NewUnaryHandler(EditorServiceListRulesProcedure, svc.ListRules, opts...),
	}
	return "/" + EditorServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// EditorServiceClient is a client for the EditorService service.
type EditorServiceClient struct {
	openSession         *connect.Client[OpenSessionRequest, SessionResponse]
	getSession          *connect.Client[SessionRequest, SessionResponse]
	addMainTracks       *connect.Client[SessionRequest, SessionResponse]
	addEncoreTracks     *connect.Client[AddEncoreTracksRequest, SessionResponse]
	addEncoreSection    *connect.Client[SessionRequest, SessionResponse]
	removeEncoreSection *connect.Client[SessionRequest, SessionResponse]
	setTrackName        *connect.Client[SetTrackNameRequest, SessionResponse]
	setTitle            *connect.Client[SetTitleRequest, SessionResponse]
	setCategory         *connect.Client[SetCategoryRequest, SessionResponse]
	setContent          *connect.Client[SetContentRequest, SessionResponse]
	addArtist           *connect.Client[ArtistRequest, SessionResponse]
	removeArtist        *connect.Client[ArtistRequest, SessionResponse]
	saveDraft           *connect.Client[SessionRequest, SubmitResponse]
	publish             *connect.Client[SessionRequest, SubmitResponse]
	discardSession      *connect.Client[SessionRequest, DiscardSessionResponse]
	searchArtists       *connect.Client[SearchArtistsRequest, SearchArtistsResponse]
	suggestTracks       *connect.Client[SuggestTracksRequest, SuggestTracksResponse]
	listRules           *connect.Client[ListRulesRequest, ListRulesResponse]
}

// NewEditorServiceClient constructs a client for the EditorService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewEditorServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *EditorServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append(opts, connect.WithCodec(Codec{}))
	return &EditorServiceClient{
		openSession:         connect.NewClient[OpenSessionRequest, SessionResponse](httpClient, baseURL+EditorServiceOpenSessionProcedure, opts...),
		getSession:          connect.NewClient[SessionRequest, SessionResponse](httpClient, baseURL+EditorServiceGetSessionProcedure, opts...),
		addMainTracks:       connect.NewClient[SessionRequest, SessionResponse](httpClient, baseURL+EditorServiceAddMainTracksProcedure, opts...),
		addEncoreTracks:     connect.NewClient[AddEncoreTracksRequest, SessionResponse](httpClient, baseURL+EditorServiceAddEncoreTracksProcedure, opts...),
		addEncoreSection:    connect.NewClient[SessionRequest, SessionResponse](httpClient, baseURL+EditorServiceAddEncoreSectionProcedure, opts...),
		removeEncoreSection: connect.NewClient[SessionRequest, SessionResponse](httpClient, baseURL+EditorServiceRemoveEncoreSectionProcedure, opts...),
		setTrackName:        connect.NewClient[SetTrackNameRequest, SessionResponse](httpClient, baseURL+EditorServiceSetTrackNameProcedure, opts...),
		setTitle:            connect.NewClient[SetTitleRequest, SessionResponse](httpClient, baseURL+EditorServiceSetTitleProcedure, opts...),
		setCategory:         connect.NewClient[SetCategoryRequest, SessionResponse](httpClient, baseURL+EditorServiceSetCategoryProcedure, opts...),
		setContent:          connect.NewClient[SetContentRequest, SessionResponse](httpClient, baseURL+EditorServiceSetContentProcedure, opts...),
		addArtist:           connect.NewClient[ArtistRequest, SessionResponse](httpClient, baseURL+EditorServiceAddArtistProcedure, opts...),
		removeArtist:        connect.NewClient[ArtistRequest, SessionResponse](httpClient, baseURL+EditorServiceRemoveArtistProcedure, opts...),
		saveDraft:           connect.NewClient[SessionRequest, SubmitResponse](httpClient, baseURL+EditorServiceSaveDraftProcedure, opts...),
		publish:             connect.NewClient[SessionRequest, SubmitResponse](httpClient, baseURL+EditorServicePublishProcedure, opts...),
		discardSession:      connect.NewClient[SessionRequest, DiscardSessionResponse](httpClient, baseURL+EditorServiceDiscardSessionProcedure, opts...),
		searchArtists:       connect.NewClient[SearchArtistsRequest, SearchArtistsResponse](httpClient, baseURL+EditorServiceSearchArtistsProcedure, opts...),
		suggestTracks:       connect.NewClient[SuggestTracksRequest, SuggestTracksResponse](httpClient, baseURL+EditorServiceSuggestTracksProcedure, opts...),
		listRules:           connect.NewClient[ListRulesRequest, ListRulesResponse](httpClient, baseURL+EditorServiceListRulesProcedure, opts...),
	}
}

// OpenSession calls likelive.editor.v1.EditorService.OpenSession.
func (c *EditorServiceClient) OpenSession(ctx context.Context, req *connect.Request[OpenSessionRequest]) (*connect.Response[SessionResponse], error) {
	return c.openSession.CallUnary(ctx, req)
}

// GetSession calls likelive.editor.v1.EditorService.GetSession.
func (c *EditorServiceClient) GetSession(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[SessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

// AddMainTracks calls likelive.editor.v1.EditorService.AddMainTracks.
func (c *EditorServiceClient) AddMainTracks(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[SessionResponse], error) {
	return c.addMainTracks.CallUnary(ctx, req)
}

// AddEncoreTracks calls likelive.editor.v1.EditorService.AddEncoreTracks.
func (c *EditorServiceClient) AddEncoreTracks(ctx context.Context, req *connect.Request[AddEncoreTracksRequest]) (*connect.Response[SessionResponse], error) {
	return c.addEncoreTracks.CallUnary(ctx, req)
}

// AddEncoreSection calls likelive.editor.v1.EditorService.AddEncoreSection.
func (c *EditorServiceClient) AddEncoreSection(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[SessionResponse], error) {
	return c.addEncoreSection.CallUnary(ctx, req)
}

// RemoveEncoreSection calls likelive.editor.v1.EditorService.RemoveEncoreSection.
func (c *EditorServiceClient) RemoveEncoreSection(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[SessionResponse], error) {
	return c.removeEncoreSection.CallUnary(ctx, req)
}

// SetTrackName calls likelive.editor.v1.EditorService.SetTrackName.
func (c *EditorServiceClient) SetTrackName(ctx context.Context, req *connect.Request[SetTrackNameRequest]) (*connect.Response[SessionResponse], error) {
	return c.setTrackName.CallUnary(ctx, req)
}

// SetTitle calls likelive.editor.v1.EditorService.SetTitle.
func (c *EditorServiceClient) SetTitle(ctx context.Context, req *connect.Request[SetTitleRequest]) (*connect.Response[SessionResponse], error) {
	return c.setTitle.CallUnary(ctx, req)
}

// SetCategory calls likelive.editor.v1.EditorService.SetCategory.
func (c *EditorServiceClient) SetCategory(ctx context.Context, req *connect.Request[SetCategoryRequest]) (*connect.Response[SessionResponse], error) {
	return c.setCategory.CallUnary(ctx, req)
}

// SetContent calls likelive.editor.v1.EditorService.SetContent.
func (c *EditorServiceClient) SetContent(ctx context.Context, req *connect.Request[SetContentRequest]) (*connect.Response[SessionResponse], error) {
	return c.setContent.CallUnary(ctx, req)
}

// AddArtist calls likelive.editor.v1.EditorService.AddArtist.
func (c *EditorServiceClient) AddArtist(ctx context.Context, req *connect.Request[ArtistRequest]) (*connect.Response[SessionResponse], error) {
	return c.addArtist.CallUnary(ctx, req)
}

// RemoveArtist calls likelive.editor.v1.EditorService.RemoveArtist.
func (c *EditorServiceClient) RemoveArtist(ctx context.Context, req *connect.Request[ArtistRequest]) (*connect.Response[SessionResponse], error) {
	return c.removeArtist.CallUnary(ctx, req)
}

// SaveDraft calls likelive.editor.v1.EditorService.SaveDraft.
func (c *EditorServiceClient) SaveDraft(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[SubmitResponse], error) {
	return c.saveDraft.CallUnary(ctx, req)
}

// Publish calls likelive.editor.v1.EditorService.Publish.
func (c *EditorServiceClient) Publish(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[SubmitResponse], error) {
	return c.publish.CallUnary(ctx, req)
}

// DiscardSession calls likelive.editor.v1.EditorService.DiscardSession.
func (c *EditorServiceClient) DiscardSession(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[DiscardSessionResponse], error) {
	return c.discardSession.CallUnary(ctx, req)
}

// SearchArtists calls likelive.editor.v1.EditorService.SearchArtists.
func (c *EditorServiceClient) SearchArtists(ctx context.Context, req *connect.Request[SearchArtistsRequest]) (*connect.Response[SearchArtistsResponse], error) {
	return c.searchArtists.CallUnary(ctx, req)
}

// SuggestTracks calls likelive.editor.v1.EditorService.SuggestTracks.
func (c *EditorServiceClient) SuggestTracks(ctx context.Context, req *connect.Request[SuggestTracksRequest]) (*connect.Response[SuggestTracksResponse], error) {
	return c.suggestTracks.CallUnary(ctx, req)
}

// ListRules calls likelive.editor.v1.EditorService.ListRules.
func (c *EditorServiceClient) ListRules(ctx context.Context, req *connect.Request[ListRulesRequest]) (*connect.Response[ListRulesResponse], error) {
	return c.listRules.CallUnary(ctx, req)
}
