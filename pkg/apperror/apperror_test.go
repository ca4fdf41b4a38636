package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/pkg/apperror"
)

func Test_AppError_HTTPStatus(t *testing.T) {
	testCases := []struct {
		name     string
		err      *apperror.AppError
		expected int
	}{
		{"validation", apperror.Validation("V", "bad"), http.StatusBadRequest},
		{"conflict", apperror.Conflict("C", "taken"), http.StatusConflict},
		{"not found", apperror.NotFound("N", "missing"), http.StatusNotFound},
		{"permission", apperror.Permission("P", "nope"), http.StatusForbidden},
		{"unauthorized", apperror.Unauthorized("U", "who"), http.StatusUnauthorized},
		{"rate limited", apperror.RateLimited("R", "slow down"), http.StatusTooManyRequests},
		{"internal", apperror.Internal("boom", nil), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.HTTPStatus())
		})
	}
}

func Test_AppError_WithDetails_DoesNotMutateSentinel(t *testing.T) {
	sentinel := apperror.Conflict("BOOK_UNAVAILABLE", "not available")

	withDetails := sentinel.WithDetails(map[string]any{"id": "1"})

	assert.Nil(t, sentinel.Details)
	assert.Equal(t, "1", withDetails.Details["id"])
	assert.True(t, errors.Is(withDetails, sentinel))
}

func Test_AppError_As_ThroughWrapping(t *testing.T) {
	cause := errors.New("db down")
	wrapped := fmt.Errorf("create borrowing: %w", apperror.Internal("failed", cause))

	appErr, ok := apperror.As(wrapped)

	require.True(t, ok)
	assert.Equal(t, apperror.KindInternal, appErr.Kind)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, apperror.IsKind(wrapped, apperror.KindInternal))
	assert.False(t, apperror.IsKind(errors.New("plain"), apperror.KindInternal))
}
