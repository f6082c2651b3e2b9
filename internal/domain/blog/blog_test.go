package blog

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/osa030/likelive/internal/domain/setlist"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
		wantErr  bool
	}{
		{input: "DRAFT", expected: StatusDraft},
		{input: "published", expected: StatusPublished},
		{input: "Archived", expected: StatusArchived},
		{input: "deleted", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			st, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownStatus))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, st)
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		wantErr  bool
	}{
		{input: "DIARY", expected: CategoryDiary},
		{input: "report", expected: CategoryReport},
		{input: "Other", expected: CategoryOther},
		{input: "news", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownCategory))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestPost_HasSetlist(t *testing.T) {
	p := &Post{Title: "Tour final"}
	assert.False(t, p.HasSetlist())

	p.Setlist = setlist.Setlist{MainSetList: []setlist.Track{{TrackNumber: 1, TrackName: "Intro"}}}
	assert.True(t, p.HasSetlist())
}
