// Package setlist provides the concert setlist entity edited inside a blog post.
//
// A setlist is a main set followed by zero or more encore sections. While a
// post is being edited the setlist lives in a State value, which only grows in
// fixed batches and keeps its track numbers contiguous. Validation derives an
// Overlay of per-track error flags; serialization strips blank tracks and
// renumbers what is left.
package setlist

import (
	"strconv"
	"strings"
)

// Policy limits of the setlist form.
const (
	MaxMainTracks      = 50 // tracks in the main set
	MainBatch          = 5  // tracks appended per AddMainTracks
	MaxEncoreTracks    = 10 // tracks per encore section
	EncoreBatch        = 2  // tracks appended per AddEncoreTracks
	MaxEncoreSections  = 5  // encore sections per setlist
	MaxTrackNameLength = 50 // runes per track name
)

// Track is a single numbered entry of a setlist.
type Track struct {
	TrackNumber int    `json:"trackNumber"` // 1-based position, recomputed on structural changes
	TrackName   string `json:"trackName"`   // Song title, empty while unfilled
}

// IsBlank reports whether the track has no name yet.
func (t Track) IsBlank() bool {
	return isBlank(t.TrackName)
}

// Setlist is the persisted shape of a setlist.
// It is both the hydration input and the serialized output.
type Setlist struct {
	MainSetList    []Track   `json:"mainSetList"`
	EncoreSections [][]Track `json:"encoreSections"`
}

// IsEmpty reports whether the setlist has no tracks at all.
func (s Setlist) IsEmpty() bool {
	if len(s.MainSetList) > 0 {
		return false
	}
	for _, section := range s.EncoreSections {
		if len(section) > 0 {
			return false
		}
	}
	return true
}

// TrackCount returns the number of tracks across the main set and all encores.
func (s Setlist) TrackCount() int {
	n := len(s.MainSetList)
	for _, section := range s.EncoreSections {
		n += len(section)
	}
	return n
}

// Target selects the sequence an operation applies to: the main set or one
// encore section.
type Target struct {
	encore  bool
	section int
}

// Main targets the main set.
func Main() Target {
	return Target{}
}

// Encore targets the encore section at the given index.
func Encore(section int) Target {
	return Target{encore: true, section: section}
}

// IsEncore reports whether the target is an encore section.
func (t Target) IsEncore() bool {
	return t.encore
}

// Section returns the encore section index. ok is false for the main set.
func (t Target) Section() (index int, ok bool) {
	return t.section, t.encore
}

// String returns a short label used in logs.
func (t Target) String() string {
	if !t.encore {
		return "main"
	}
	return "encore[" + strconv.Itoa(t.section) + "]"
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
