package connect

import (
	editorv1 "github.com/osa030/likelive/internal/api/editorv1"
	"github.com/osa030/likelive/internal/app/editor"
	"github.com/osa030/likelive/internal/domain/setlist"
)

// toSession converts a session view to its wire form.
func toSession(v editor.View) *editorv1.Session {
	return &editorv1.Session{
		SessionId:  v.ID,
		Mode:       v.Mode.String(),
		BlogId:     v.BlogID,
		Status:     string(v.Status),
		Title:      v.Title,
		TitleError: v.TitleError,
		Category:   string(v.Category),
		Content:    v.Content,
		ArtistIds:  v.ArtistIDs,
		Setlist:    toSetlist(v.Setlist),

		CanSaveDraft: v.CanSaveDraft,
	}
}

func toSetlist(s setlist.State) *editorv1.Setlist {
	out := &editorv1.Setlist{
		MainSet:                toTracks(s.MainSet),
		EncoreSections:         make([][]editorv1.Track, len(s.EncoreSections)),
		MainErrors:             append([]bool{}, s.Errors.MainSet...),
		EncoreErrors:           make([]editorv1.SectionErrors, len(s.Errors.EncoreSections)),
		CanAddMainTracks:       s.CanAddMainTracks(),
		CanAddEncoreTracks:     make([]bool, len(s.EncoreSections)),
		CanAddEncoreSection:    s.CanAddEncoreSection(),
		CanRemoveEncoreSection: len(s.EncoreSections) > 0,
	}
	for i, section := range s.EncoreSections {
		out.EncoreSections[i] = toTracks(section)
		out.CanAddEncoreTracks[i] = s.CanAddEncoreTracks(i)
	}
	for i, errs := range s.Errors.EncoreSections {
		out.EncoreErrors[i] = editorv1.SectionErrors{
			Tracks: append([]bool{}, errs.Tracks...),
			Empty:  errs.Empty,
		}
	}
	return out
}

func toTracks(tracks []setlist.Track) []editorv1.Track {
	out := make([]editorv1.Track, len(tracks))
	for i, t := range tracks {
		out[i] = editorv1.Track{TrackNumber: int32(t.TrackNumber), TrackName: t.TrackName}
	}
	return out
}
