package setlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// named builds a track sequence from names, numbered 1..n.
func named(names ...string) []Track {
	tracks := make([]Track, len(names))
	for i, n := range names {
		tracks[i] = Track{TrackNumber: i + 1, TrackName: n}
	}
	return tracks
}

func assertNumbered(t *testing.T, tracks []Track) {
	t.Helper()
	for i, tr := range tracks {
		assert.Equal(t, i+1, tr.TrackNumber, "track at index %d", i)
	}
}

func TestState_AddMainTracks(t *testing.T) {
	for n := 0; n <= MaxMainTracks; n++ {
		s := NewState()
		calls := (n + MainBatch - 1) / MainBatch
		for i := 0; i < calls; i++ {
			s = s.AddMainTracks()
		}

		want := min(MainBatch*calls, MaxMainTracks)
		require.Len(t, s.MainSet, want, "n=%d", n)
		assert.Len(t, s.Errors.MainSet, want)
		assertNumbered(t, s.MainSet)
	}
}

func TestState_AddMainTracks_AtCap(t *testing.T) {
	s := NewState()
	for i := 0; i < MaxMainTracks/MainBatch; i++ {
		s = s.AddMainTracks()
	}
	require.Len(t, s.MainSet, MaxMainTracks)
	assert.False(t, s.CanAddMainTracks())

	s = s.AddMainTracks()
	assert.Len(t, s.MainSet, MaxMainTracks)
}

func TestState_AddMainTracks_PartialBatch(t *testing.T) {
	names := make([]string, 47)
	for i := range names {
		names[i] = "song"
	}
	s := Hydrate(Setlist{MainSetList: named(names...)})

	require.True(t, s.CanAddMainTracks())
	s = s.AddMainTracks()
	require.Len(t, s.MainSet, MaxMainTracks)
	assert.Len(t, s.Errors.MainSet, MaxMainTracks)
	assertNumbered(t, s.MainSet)
	assert.Equal(t, "", s.MainSet[47].TrackName)
	assert.False(t, s.CanAddMainTracks())
}

func TestState_AddEncoreTracks_PartialBatch(t *testing.T) {
	names := make([]string, 9)
	for i := range names {
		names[i] = "song"
	}
	s := Hydrate(Setlist{EncoreSections: [][]Track{named(names...)}})

	require.True(t, s.CanAddEncoreTracks(0))
	s = s.AddEncoreTracks(0)
	require.Len(t, s.EncoreSections[0], MaxEncoreTracks)
	assert.Len(t, s.Errors.EncoreSections[0].Tracks, MaxEncoreTracks)
	assertNumbered(t, s.EncoreSections[0])
	assert.False(t, s.CanAddEncoreTracks(0))
}

func TestState_AddMainTracks_DoesNotCompact(t *testing.T) {
	s := NewState().AddMainTracks()
	s = s.AddMainTracks()
	assert.Len(t, s.MainSet, 10)
	assertNumbered(t, s.MainSet)
}

func TestState_AddMainTracks_Immutable(t *testing.T) {
	before := NewState().AddMainTracks()
	after := before.AddMainTracks()

	assert.Len(t, before.MainSet, 5)
	assert.Len(t, after.MainSet, 10)
}

func TestState_EncoreSections(t *testing.T) {
	s := NewState().AddEncoreSection()
	require.Len(t, s.EncoreSections, 1)
	assert.Equal(t, named("", ""), s.EncoreSections[0])
	assert.Equal(t, []bool{false, false}, s.Errors.EncoreSections[0].Tracks)

	for i := 0; i < 10; i++ {
		s = s.AddEncoreTracks(0)
	}
	assert.Len(t, s.EncoreSections[0], MaxEncoreTracks)
	assert.Len(t, s.Errors.EncoreSections[0].Tracks, MaxEncoreTracks)
	assertNumbered(t, s.EncoreSections[0])
	assert.False(t, s.CanAddEncoreTracks(0))
}

func TestState_AddEncoreTracks_UnknownSection(t *testing.T) {
	s := NewState().AddEncoreSection()

	assert.Equal(t, s, s.AddEncoreTracks(1))
	assert.Equal(t, s, s.AddEncoreTracks(-1))
	assert.False(t, s.CanAddEncoreTracks(3))
}

func TestState_AddEncoreSection_Cap(t *testing.T) {
	s := NewState()
	for i := 0; i < MaxEncoreSections; i++ {
		assert.True(t, s.CanAddEncoreSection())
		s = s.AddEncoreSection()
	}

	assert.Len(t, s.EncoreSections, MaxEncoreSections)
	assert.False(t, s.CanAddEncoreSection())

	s = s.AddEncoreSection()
	assert.Len(t, s.EncoreSections, MaxEncoreSections)
	assert.Len(t, s.Errors.EncoreSections, MaxEncoreSections)
}

func TestState_RemoveEncoreSection(t *testing.T) {
	t.Run("empty list is a no-op", func(t *testing.T) {
		s := NewState().RemoveEncoreSection()
		assert.Len(t, s.EncoreSections, 0)
		assert.Len(t, s.Errors.EncoreSections, 0)
	})

	t.Run("removes the last section", func(t *testing.T) {
		s := NewState().AddEncoreSection().AddEncoreSection()
		s = s.SetTrackName(Encore(0), 0, "first")
		s = s.SetTrackName(Encore(1), 0, "second")

		s = s.RemoveEncoreSection()
		require.Len(t, s.EncoreSections, 1)
		assert.Equal(t, "first", s.EncoreSections[0][0].TrackName)
		assert.Len(t, s.Errors.EncoreSections, 1)
	})
}

func TestState_SetTrackName(t *testing.T) {
	s := NewState().AddMainTracks().AddEncoreSection()

	s = s.SetTrackName(Main(), 2, "Opening")
	s = s.SetTrackName(Encore(0), 1, "Finale")

	assert.Equal(t, "Opening", s.MainSet[2].TrackName)
	assert.Equal(t, "Finale", s.EncoreSections[0][1].TrackName)

	t.Run("out of range is a no-op", func(t *testing.T) {
		assert.Equal(t, s, s.SetTrackName(Main(), 5, "x"))
		assert.Equal(t, s, s.SetTrackName(Encore(0), 2, "x"))
		assert.Equal(t, s, s.SetTrackName(Encore(4), 0, "x"))
	})

	t.Run("long names are cut", func(t *testing.T) {
		long := strings.Repeat("あ", MaxTrackNameLength+10)
		next := s.SetTrackName(Main(), 0, long)
		assert.Equal(t, MaxTrackNameLength, len([]rune(next.MainSet[0].TrackName)))
	})
}

func TestState_SetTrackName_ClearsFlag(t *testing.T) {
	s := Hydrate(Setlist{
		MainSetList:    named("A", "", "B"),
		EncoreSections: [][]Track{named("", "")},
	}).Validate()
	require.True(t, s.Errors.MainSet[1])
	require.True(t, s.Errors.EncoreSections[0].Empty)

	t.Run("empty value keeps the flag", func(t *testing.T) {
		next := s.SetTrackName(Main(), 1, "")
		assert.True(t, next.Errors.MainSet[1])
	})

	t.Run("whitespace value clears the flag until the next validation", func(t *testing.T) {
		next := s.SetTrackName(Main(), 1, "   ")
		assert.False(t, next.Errors.MainSet[1])
		assert.True(t, next.Validate().Errors.MainSet[1])
	})

	t.Run("filled value clears the flag", func(t *testing.T) {
		next := s.SetTrackName(Main(), 1, "Middle")
		assert.False(t, next.Errors.MainSet[1])
		assert.True(t, s.Errors.MainSet[1], "receiver must be untouched")
	})

	t.Run("filled encore value clears position and empty marker", func(t *testing.T) {
		next := s.SetTrackName(Encore(0), 0, "Encore")
		assert.False(t, next.Errors.EncoreSections[0].Tracks[0])
		assert.True(t, next.Errors.EncoreSections[0].Tracks[1])
		assert.False(t, next.Errors.EncoreSections[0].Empty)
	})
}

func TestState_Serialize(t *testing.T) {
	tests := []struct {
		name     string
		input    Setlist
		expected Setlist
	}{
		{
			name:     "empty",
			input:    Setlist{},
			expected: Setlist{MainSetList: []Track{}, EncoreSections: [][]Track{}},
		},
		{
			name:  "drops blanks and renumbers",
			input: Setlist{MainSetList: named("A", "", "B")},
			expected: Setlist{
				MainSetList:    []Track{{TrackNumber: 1, TrackName: "A"}, {TrackNumber: 2, TrackName: "B"}},
				EncoreSections: [][]Track{},
			},
		},
		{
			name:  "whitespace names are blank",
			input: Setlist{MainSetList: named(" ", "A", "\t")},
			expected: Setlist{
				MainSetList:    []Track{{TrackNumber: 1, TrackName: "A"}},
				EncoreSections: [][]Track{},
			},
		},
		{
			name: "drops empty encore sections",
			input: Setlist{
				MainSetList:    named("A"),
				EncoreSections: [][]Track{named("", ""), named("", "X"), named()},
			},
			expected: Setlist{
				MainSetList:    []Track{{TrackNumber: 1, TrackName: "A"}},
				EncoreSections: [][]Track{{{TrackNumber: 1, TrackName: "X"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Hydrate(tt.input).Serialize()
			assert.Equal(t, tt.expected, once)

			twice := Hydrate(once).Serialize()
			assert.Equal(t, once, twice)
			assert.Equal(t, once, Compact(once))
		})
	}
}

func TestState_Serialize_LeavesStateUntouched(t *testing.T) {
	s := Hydrate(Setlist{MainSetList: named("", "A")})
	_ = s.Serialize()

	assert.Equal(t, named("", "A"), s.MainSet)
}

func TestHydrate(t *testing.T) {
	src := Setlist{
		MainSetList:    named("A", "B", ""),
		EncoreSections: [][]Track{named("C", "")},
	}
	s := Hydrate(src)

	assert.Equal(t, src.MainSetList, s.MainSet)
	assert.Equal(t, src.EncoreSections, s.EncoreSections)
	assert.Equal(t, []bool{false, false, false}, s.Errors.MainSet)
	assert.Equal(t, []SectionErrors{{Tracks: []bool{false, false}}}, s.Errors.EncoreSections)

	src.MainSetList[0].TrackName = "changed"
	assert.Equal(t, "A", s.MainSet[0].TrackName)
}

func TestTarget(t *testing.T) {
	assert.False(t, Main().IsEncore())
	_, ok := Main().Section()
	assert.False(t, ok)
	assert.Equal(t, "main", Main().String())

	idx, ok := Encore(3).Section()
	assert.True(t, ok)
	assert.Equal(t, 3, idx)
	assert.Equal(t, "encore[3]", Encore(3).String())
}

func TestSetlist_Counts(t *testing.T) {
	assert.True(t, Setlist{}.IsEmpty())
	assert.True(t, Setlist{EncoreSections: [][]Track{{}}}.IsEmpty())

	sl := Setlist{MainSetList: named("A", "B"), EncoreSections: [][]Track{named("C")}}
	assert.False(t, sl.IsEmpty())
	assert.Equal(t, 3, sl.TrackCount())
}
