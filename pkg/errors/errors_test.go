package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Non ho trovato il luogo", "Il luogo 999 non esiste")

	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnavailable(err))
	assert.Equal(t, "Non ho trovato il luogo", err.UserMessage)
	assert.Equal(t, "Il luogo 999 non esiste", err.DebugMessage)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
}

func TestFromBackendError(t *testing.T) {
	t.Run("deadline becomes timeout", func(t *testing.T) {
		err := FromBackendError("dynamodb", fmt.Errorf("get item: %w", context.DeadlineExceeded))

		assert.Equal(t, ErrorTypeTimeout, err.Type)
		assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus)
		assert.True(t, IsUnavailable(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("other failures become unavailable", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := FromBackendError("search", cause)

		assert.Equal(t, ErrorTypeUnavailable, err.Type)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "search")
	})

	t.Run("app errors pass through", func(t *testing.T) {
		original := NewValidationError("bad")
		assert.Same(t, original, FromBackendError("search", original))
	})
}

func TestGetAppErrorThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("query handler failed: %w", NewValidationError("place ID cannot be empty"))

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.True(t, IsValidation(wrapped))
	assert.Equal(t, "place ID cannot be empty", appErr.DebugMessage)
}
