package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorPassesTypedErrorsThrough(t *testing.T) {
	err := Clone(ErrNotFound, "course not found")
	got := FromError(err)
	assert.Same(t, err, got)
}

func TestFromErrorUnwrapsNestedTypedError(t *testing.T) {
	inner := Clone(ErrConflict, "blocked")
	wrapped := fmt.Errorf("outer: %w", inner)
	got := FromError(wrapped)
	assert.Equal(t, ErrConflict.Code, got.Code)
	assert.Equal(t, http.StatusBadRequest, got.Status)
}

func TestFromErrorKeepsOriginalMessage(t *testing.T) {
	got := FromError(errors.New("connection refused"))
	require.NotNil(t, got)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, "connection refused", got.Message)
}

func TestFromErrorNil(t *testing.T) {
	assert.Nil(t, FromError(nil))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrValidation, "custom message")
	assert.Equal(t, "custom message", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
	assert.Equal(t, ErrValidation.Code, clone.Code)
}

func TestConflictMapsToBadRequest(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrConflict.Status)
}
