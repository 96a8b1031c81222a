package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Query string `validate:"max=5"`
	Name  string `validate:"required"`
	Size  int    `validate:"gte=0,lte=10"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct passes", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(sample{Query: "abc", Name: "x", Size: 3}))
	})

	t.Run("messages are joined per field", func(t *testing.T) {
		err := ValidateStruct(sample{Query: "abcdefg", Size: 11})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "query must be at most 5 characters")
		assert.Contains(t, err.Error(), "name is required")
		assert.Contains(t, err.Error(), "size is out of range")
	})
}
