package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlaceIDFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "numeric id", input: "123"},
		{name: "keeps surrounding spaces verbatim", input: " 42 "},
		{name: "empty", input: "", wantErr: ErrEmptyPlaceID},
		{name: "blank", input: "   ", wantErr: ErrEmptyPlaceID},
		{name: "too long", input: strings.Repeat("a", MaxPlaceIDLength+1), wantErr: ErrPlaceIDTooLong},
		{name: "slash", input: "a/b", wantErr: ErrInvalidPlaceID},
		{name: "control character", input: "a\nb", wantErr: ErrInvalidPlaceID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewPlaceIDFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestPlaceIDEquals(t *testing.T) {
	a, _ := NewPlaceIDFromString("123")
	b, _ := NewPlaceIDFromString("123")
	c, _ := NewPlaceIDFromString("124")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
