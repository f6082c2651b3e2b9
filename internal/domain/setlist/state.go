package setlist

// State is the editable setlist of one editing session.
//
// State is an immutable value: every transition returns a new State and leaves
// the receiver untouched. Errors always mirrors the shape of MainSet and
// EncoreSections.
type State struct {
	MainSet        []Track   // Main set, 0..MaxMainTracks entries
	EncoreSections [][]Track // Encore sections, 0..MaxEncoreSections sections
	Errors         Overlay   // Flags from the last validation pass
}

// NewState returns an empty setlist for a new post.
func NewState() State {
	return State{
		MainSet:        []Track{},
		EncoreSections: [][]Track{},
		Errors:         Overlay{MainSet: []bool{}, EncoreSections: []SectionErrors{}},
	}
}

// Hydrate builds a State from a persisted setlist, keeping tracks as given.
// The overlay starts with every flag cleared.
func Hydrate(sl Setlist) State {
	s := State{
		MainSet:        cloneTracks(sl.MainSetList),
		EncoreSections: make([][]Track, len(sl.EncoreSections)),
	}
	for i, section := range sl.EncoreSections {
		s.EncoreSections[i] = cloneTracks(section)
	}
	s.Errors = cleanOverlay(s)
	return s
}

// CanAddMainTracks reports whether the main set is below its cap.
func (s State) CanAddMainTracks() bool {
	return len(s.MainSet) < MaxMainTracks
}

// CanAddEncoreTracks reports whether the given section is below its cap.
func (s State) CanAddEncoreTracks(section int) bool {
	if !s.HasSection(section) {
		return false
	}
	return len(s.EncoreSections[section]) < MaxEncoreTracks
}

// CanAddEncoreSection reports whether another encore section may be added.
func (s State) CanAddEncoreSection() bool {
	return len(s.EncoreSections) < MaxEncoreSections
}

// HasSection reports whether an encore section exists at the given index.
func (s State) HasSection(section int) bool {
	return section >= 0 && section < len(s.EncoreSections)
}

// Has reports whether the target holds a track at index.
func (s State) Has(target Target, index int) bool {
	tracks, ok := s.tracks(target)
	return ok && index >= 0 && index < len(tracks)
}

// AddMainTracks appends MainBatch empty tracks to the main set, or fewer when
// only fewer fit. It is a no-op at MaxMainTracks.
func (s State) AddMainTracks() State {
	if !s.CanAddMainTracks() {
		return s
	}
	n := min(MainBatch, MaxMainTracks-len(s.MainSet))
	next := s.clone()
	next.MainSet = renumber(append(next.MainSet, blankTracks(n)...))
	next.Errors.MainSet = append(next.Errors.MainSet, make([]bool, n)...)
	return next
}

// AddEncoreTracks appends EncoreBatch empty tracks to an encore section, or
// fewer when only fewer fit. It is a no-op at MaxEncoreTracks or when the
// section does not exist.
func (s State) AddEncoreTracks(section int) State {
	if !s.CanAddEncoreTracks(section) {
		return s
	}
	n := min(EncoreBatch, MaxEncoreTracks-len(s.EncoreSections[section]))
	next := s.clone()
	next.EncoreSections[section] = renumber(append(next.EncoreSections[section], blankTracks(n)...))
	errs := &next.Errors.EncoreSections[section]
	errs.Tracks = append(errs.Tracks, make([]bool, n)...)
	return next
}

// AddEncoreSection appends a section holding EncoreBatch empty tracks.
// It is a no-op once MaxEncoreSections sections exist.
func (s State) AddEncoreSection() State {
	if !s.CanAddEncoreSection() {
		return s
	}
	next := s.clone()
	next.EncoreSections = append(next.EncoreSections, renumber(blankTracks(EncoreBatch)))
	next.Errors.EncoreSections = append(next.Errors.EncoreSections, SectionErrors{
		Tracks: make([]bool, EncoreBatch),
	})
	return next
}

// RemoveEncoreSection drops the last encore section. Sections are removed in
// stack order only.
func (s State) RemoveEncoreSection() State {
	if len(s.EncoreSections) == 0 {
		return s
	}
	next := s.clone()
	last := len(next.EncoreSections) - 1
	next.EncoreSections = next.EncoreSections[:last]
	next.Errors.EncoreSections = next.Errors.EncoreSections[:last]
	return next
}

// SetTrackName overwrites the name at index of the target sequence.
// Names longer than MaxTrackNameLength runes are cut. Any non-empty name
// clears the flag at that position; the next validation recomputes it.
func (s State) SetTrackName(target Target, index int, name string) State {
	if !s.Has(target, index) {
		return s
	}
	name = clip(name, MaxTrackNameLength)

	next := s.clone()
	if section, ok := target.Section(); ok {
		next.EncoreSections[section][index].TrackName = name
		if name != "" {
			errs := &next.Errors.EncoreSections[section]
			errs.Tracks[index] = false
			errs.Empty = false
		}
		return next
	}

	next.MainSet[index].TrackName = name
	if name != "" {
		next.Errors.MainSet[index] = false
	}
	return next
}

// Validate returns a copy of the state carrying a freshly computed overlay.
func (s State) Validate() State {
	next := s.clone()
	next.Errors = Validate(s)
	return next
}

// ClearErrors returns a copy of the state with every flag cleared.
func (s State) ClearErrors() State {
	next := s.clone()
	next.Errors = cleanOverlay(next)
	return next
}

// Serialize strips blank tracks, renumbers the rest from 1, and drops encore
// sections left without tracks.
func (s State) Serialize() Setlist {
	return Compact(Setlist{MainSetList: s.MainSet, EncoreSections: s.EncoreSections})
}

// Compact applies the serialization rules to a persisted setlist. Compacting
// an already compacted setlist returns an equal setlist.
func Compact(sl Setlist) Setlist {
	out := Setlist{
		MainSetList:    filled(sl.MainSetList),
		EncoreSections: make([][]Track, 0, len(sl.EncoreSections)),
	}
	for _, section := range sl.EncoreSections {
		if tracks := filled(section); len(tracks) > 0 {
			out.EncoreSections = append(out.EncoreSections, tracks)
		}
	}
	return out
}

func (s State) tracks(target Target) ([]Track, bool) {
	if section, ok := target.Section(); ok {
		if !s.HasSection(section) {
			return nil, false
		}
		return s.EncoreSections[section], true
	}
	return s.MainSet, true
}

func (s State) clone() State {
	next := State{
		MainSet:        cloneTracks(s.MainSet),
		EncoreSections: make([][]Track, len(s.EncoreSections)),
	}
	for i, section := range s.EncoreSections {
		next.EncoreSections[i] = cloneTracks(section)
	}
	next.Errors = s.Errors.fit(next)
	return next
}

func filled(tracks []Track) []Track {
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if !t.IsBlank() {
			out = append(out, t)
		}
	}
	return renumber(out)
}

func renumber(tracks []Track) []Track {
	for i := range tracks {
		tracks[i].TrackNumber = i + 1
	}
	return tracks
}

func blankTracks(n int) []Track {
	return make([]Track, n)
}

func cloneTracks(tracks []Track) []Track {
	out := make([]Track, len(tracks))
	copy(out, tracks)
	return out
}

func clip(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
