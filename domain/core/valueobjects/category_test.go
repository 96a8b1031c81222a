package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFilter(t *testing.T) {
	t.Run("empty is inactive", func(t *testing.T) {
		f := NewCategoryFilter("")
		assert.False(t, f.Active())
		assert.True(t, f.Matches("calcio"))
	})

	t.Run("sentinel is inactive", func(t *testing.T) {
		assert.False(t, NewCategoryFilter(" ALL ").Active())
	})

	t.Run("matches normalized categories", func(t *testing.T) {
		f := NewCategoryFilter("Territorio")
		assert.True(t, f.Active())
		assert.Equal(t, "territorio", f.Value())
		assert.True(t, f.Matches("territorio"))
		assert.True(t, f.Matches(" TERRITORIO"))
		assert.False(t, f.Matches("palestra"))
	})
}

func TestNewCategorySet(t *testing.T) {
	set := NewCategorySet([]string{"Territorio", "palestra", "", "Territorio", " palestra "})

	assert.Equal(t, []string{"Territorio", "palestra"}, set.Names())
	assert.Equal(t, 2, set.Len())
}

func TestCategorySetAdd(t *testing.T) {
	set := NewCategorySet([]string{"b"}).Add("a", "b")

	assert.Equal(t, []string{"a", "b"}, set.Names())
}
