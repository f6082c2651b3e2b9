package setlist

// Overlay holds the error flags derived by Validate.
// It is never persisted.
type Overlay struct {
	MainSet        []bool          // true at i: track i is blank while track i+1 is filled
	EncoreSections []SectionErrors // One entry per encore section
}

// SectionErrors holds the flags of one encore section.
type SectionErrors struct {
	Tracks []bool // Gap flags, or all true when Empty
	Empty  bool   // Every track of the section is blank
}

// HasGap reports whether any sequence has a blank track before a filled one.
func (o Overlay) HasGap() bool {
	if anyFlag(o.MainSet) {
		return true
	}
	for _, section := range o.EncoreSections {
		if !section.Empty && anyFlag(section.Tracks) {
			return true
		}
	}
	return false
}

// HasEmptySection reports whether an encore section has no filled track.
func (o Overlay) HasEmptySection() bool {
	for _, section := range o.EncoreSections {
		if section.Empty {
			return true
		}
	}
	return false
}

// Valid reports whether the setlist may be submitted.
func (o Overlay) Valid() bool {
	if anyFlag(o.MainSet) {
		return false
	}
	for _, section := range o.EncoreSections {
		if section.Empty || anyFlag(section.Tracks) {
			return false
		}
	}
	return true
}

// Validate computes the overlay for the current tracks of s.
//
// In every sequence, a blank track directly followed by a filled one is
// flagged. Blank tracks after the last filled track are not flagged; they are
// dropped by Serialize. An encore section whose tracks are all blank is marked
// Empty and flagged at every index.
func Validate(s State) Overlay {
	o := Overlay{
		MainSet:        gaps(s.MainSet),
		EncoreSections: make([]SectionErrors, len(s.EncoreSections)),
	}
	for i, section := range s.EncoreSections {
		errs := SectionErrors{Tracks: gaps(section)}
		if allBlank(section) {
			errs.Empty = true
			for j := range errs.Tracks {
				errs.Tracks[j] = true
			}
		}
		o.EncoreSections[i] = errs
	}
	return o
}

func gaps(tracks []Track) []bool {
	flags := make([]bool, len(tracks))
	for i := 1; i < len(tracks); i++ {
		if !tracks[i].IsBlank() && tracks[i-1].IsBlank() {
			flags[i-1] = true
		}
	}
	return flags
}

func allBlank(tracks []Track) bool {
	for _, t := range tracks {
		if !t.IsBlank() {
			return false
		}
	}
	return true
}

func anyFlag(flags []bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}
	return false
}

func cleanOverlay(s State) Overlay {
	o := Overlay{
		MainSet:        make([]bool, len(s.MainSet)),
		EncoreSections: make([]SectionErrors, len(s.EncoreSections)),
	}
	for i, section := range s.EncoreSections {
		o.EncoreSections[i] = SectionErrors{Tracks: make([]bool, len(section))}
	}
	return o
}

// fit copies the overlay into the shape of s, padding missing flags with false.
func (o Overlay) fit(s State) Overlay {
	next := cleanOverlay(s)
	copy(next.MainSet, o.MainSet)
	for i := range next.EncoreSections {
		if i >= len(o.EncoreSections) {
			break
		}
		copy(next.EncoreSections[i].Tracks, o.EncoreSections[i].Tracks)
		next.EncoreSections[i].Empty = o.EncoreSections[i].Empty
	}
	return next
}
