package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/pkg/apperror"
)

func handle(t *testing.T, err error) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/books", nil)

	HandleError(c, err)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func Test_HandleError(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"plain error hidden", errors.New("pg: connection refused"), http.StatusInternalServerError, string(apperror.KindInternal)},
		{"wrapped conflict", fmt.Errorf("create: %w", apperror.Conflict("ISBN_ALREADY_EXISTS", "taken")), http.StatusConflict, "ISBN_ALREADY_EXISTS"},
		{"rate limited", apperror.RateLimited("TOO_MANY_ATTEMPTS", "slow down"), http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"},
		{"field errors", validation.Errors{"title": errors.New("title is required")}, http.StatusBadRequest, string(apperror.KindValidation)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := handle(t, tc.err)

			assert.Equal(t, tc.status, status)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotContains(t, body.Error.Message, "connection refused")
		})
	}
}
