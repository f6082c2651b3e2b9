// Package editorv1 defines the EditorService RPC messages and wiring.
//
// Messages travel as JSON over the Connect protocol.
package editorv1

import "encoding/json"

// Track is one setlist entry.
type Track struct {
	TrackNumber int32  `json:"trackNumber"`
	TrackName   string `json:"trackName"`
}

// SectionErrors holds the error flags of one encore section.
type SectionErrors struct {
	Tracks []bool `json:"tracks"`
	Empty  bool   `json:"empty"`
}

// Setlist is the editable setlist with its error overlay and the
// operations currently allowed.
type Setlist struct {
	MainSet                []Track         `json:"mainSet"`
	EncoreSections         [][]Track       `json:"encoreSections"`
	MainErrors             []bool          `json:"mainErrors"`
	EncoreErrors           []SectionErrors `json:"encoreErrors"`
	CanAddMainTracks       bool            `json:"canAddMainTracks"`
	CanAddEncoreTracks     []bool          `json:"canAddEncoreTracks"`
	CanAddEncoreSection    bool            `json:"canAddEncoreSection"`
	CanRemoveEncoreSection bool            `json:"canRemoveEncoreSection"`
}

// Session is the state of one editing session.
type Session struct {
	SessionId  string          `json:"sessionId"`
	Mode       string          `json:"mode"`
	BlogId     string          `json:"blogId,omitempty"`
	Status     string          `json:"status,omitempty"`
	Title      string          `json:"title"`
	TitleError bool            `json:"titleError"`
	Category   string          `json:"category"`
	Content    json.RawMessage `json:"content,omitempty"`
	ArtistIds  []string        `json:"artistIds"`
	Setlist    *Setlist        `json:"setlist"`

	CanSaveDraft bool `json:"canSaveDraft"`
}

// OpenSessionRequest opens a session. An empty BlogId starts a new post.
type OpenSessionRequest struct {
	BlogId string `json:"blogId,omitempty"`
}

// SessionRequest addresses an existing session.
type SessionRequest struct {
	SessionId string `json:"sessionId"`
}

// AddEncoreTracksRequest adds a batch of tracks to an encore section.
type AddEncoreTracksRequest struct {
	SessionId string `json:"sessionId"`
	Section   int32  `json:"section"`
}

// SetTrackNameRequest sets the name of one track. Section is used only when
// Encore is true.
type SetTrackNameRequest struct {
	SessionId string `json:"sessionId"`
	Encore    bool   `json:"encore"`
	Section   int32  `json:"section"`
	Index     int32  `json:"index"`
	TrackName string `json:"trackName"`
}

// SetTitleRequest sets the post title.
type SetTitleRequest struct {
	SessionId string `json:"sessionId"`
	Title     string `json:"title"`
}

// SetCategoryRequest sets the post category.
type SetCategoryRequest struct {
	SessionId string `json:"sessionId"`
	Category  string `json:"category"`
}

// SetContentRequest replaces the rich-text document.
type SetContentRequest struct {
	SessionId string          `json:"sessionId"`
	Content   json.RawMessage `json:"content"`
}

// ArtistRequest adds or removes a related artist.
type ArtistRequest struct {
	SessionId string `json:"sessionId"`
	ArtistId  string `json:"artistId"`
}

// SessionResponse returns the session after an operation.
type SessionResponse struct {
	Session *Session `json:"session"`
}

// DiscardSessionResponse reports the result of a discard.
type DiscardSessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SubmitResponse reports the result of saving a draft or publishing.
type SubmitResponse struct {
	Accepted bool     `json:"accepted"`
	Codes    []string `json:"codes"`
	Messages []string `json:"messages"`
	BlogId   string   `json:"blogId,omitempty"`
	Session  *Session `json:"session"`
}

// Artist is an artist search hit.
type Artist struct {
	Id         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	ImageUrl   string   `json:"imageUrl,omitempty"`
	Url        string   `json:"url"`
	Popularity int32    `json:"popularity"`
}

// SearchArtistsRequest searches artists by name.
type SearchArtistsRequest struct {
	Query string `json:"query"`
	Limit int32  `json:"limit"`
}

// SearchArtistsResponse lists matching artists.
type SearchArtistsResponse struct {
	Artists []*Artist `json:"artists"`
}

// SuggestTracksRequest asks for track names of an artist.
type SuggestTracksRequest struct {
	Artist string `json:"artist"`
	Limit  int32  `json:"limit"`
}

// SuggestTracksResponse lists track names, most played first.
type SuggestTracksResponse struct {
	TrackNames []string `json:"trackNames"`
}

// ListRulesRequest lists the active submission rules.
type ListRulesRequest struct{}

// RuleInfo describes a submission rule.
type RuleInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Codes       []string `json:"codes"`
}

// ListRulesResponse lists the active submission rules.
type ListRulesResponse struct {
	Rules []*RuleInfo `json:"rules"`
}
