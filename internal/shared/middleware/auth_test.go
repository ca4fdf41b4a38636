package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/shared/middleware"
	"library-backend/pkg/jwt"
)

func newRouter(tokens *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())

	authed := r.Group("/", middleware.AuthMiddleware(tokens))
	authed.GET("/me", func(c *gin.Context) {
		caller, _ := middleware.GetCaller(c)
		c.JSON(http.StatusOK, gin.H{"username": caller.Username, "staff": caller.IsStaff})
	})
	authed.GET("/staff", middleware.StaffMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func Test_AuthMiddleware(t *testing.T) {
	tokens := jwt.NewManager("test-secret", time.Hour)
	r := newRouter(tokens)

	memberToken, _, err := tokens.GenerateAccessToken(uuid.NewString(), "alice", false)
	require.NoError(t, err)
	staffToken, _, err := tokens.GenerateAccessToken(uuid.NewString(), "bob", true)
	require.NoError(t, err)
	foreignToken, _, err := jwt.NewManager("other-secret", time.Hour).GenerateAccessToken(uuid.NewString(), "eve", true)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic " + memberToken, http.StatusUnauthorized},
		{"foreign signature", "/me", "Bearer " + foreignToken, http.StatusUnauthorized},
		{"member ok", "/me", "Bearer " + memberToken, http.StatusOK},
		{"member on staff route", "/staff", "Bearer " + memberToken, http.StatusForbidden},
		{"staff on staff route", "/staff", "Bearer " + staffToken, http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func Test_AuthMiddleware_SetsCaller(t *testing.T) {
	tokens := jwt.NewManager("test-secret", time.Hour)
	r := newRouter(tokens)
	token, _, err := tokens.GenerateAccessToken(uuid.NewString(), "alice", false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, false, body["staff"])
}
