package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/journeyreads/journey-server/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{
		Code:    http.StatusNotFound,
		Message: "not found",
	}

	assert.Equal(t, "not found", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &store.Error{
		Code:    http.StatusNotFound,
		Message: "not found",
		Err:     cause,
	}

	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "underlying error")
}

func TestError_HTTPCode(t *testing.T) {
	err := &store.Error{
		Code:    http.StatusBadRequest,
		Message: "bad request",
	}

	assert.Equal(t, http.StatusBadRequest, err.HTTPCode())
}

func TestError_IsMatchesSentinelThroughCause(t *testing.T) {
	wrapped := store.ErrInvalidInput.WithCause(fmt.Errorf("empty title"))

	assert.True(t, errors.Is(wrapped, store.ErrInvalidInput))
	assert.False(t, errors.Is(wrapped, store.ErrNotFound))

	// The cause stays reachable through the chain.
	assert.Contains(t, wrapped.Error(), "empty title")
}
