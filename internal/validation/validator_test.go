package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeyreads/journey-server/internal/errors"
	"github.com/journeyreads/journey-server/internal/validation"
)

type testRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Note  string `json:"note" validate:"max=300"`
	Limit int    `json:"limit" validate:"gte=1,lte=40"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := testRequest{
		Title: "Books that rewired me",
		Note:  "Read this first",
		Limit: 10,
	}

	assert.NoError(t, v.Validate(req))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       testRequest
		wantField string
	}{
		{
			name:      "missing required field",
			req:       testRequest{Note: "x", Limit: 10},
			wantField: "title",
		},
		{
			name:      "note too long",
			req:       testRequest{Title: "T", Note: string(make([]byte, 301)), Limit: 10},
			wantField: "note",
		},
		{
			name:      "limit out of range",
			req:       testRequest{Title: "T", Limit: 100},
			wantField: "limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation), "got %v", err)

			var domainErr *errors.Error
			require.True(t, errors.As(err, &domainErr))
			fields, ok := domainErr.Details.(map[string]string)
			require.True(t, ok, "details should carry field errors")
			assert.Contains(t, fields, tt.wantField)
		})
	}
}
