package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookModel "library-backend/internal/domains/book/model"
	"library-backend/internal/domains/borrowing/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/testutil/memstore"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(caller shared.Caller, h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetCaller(c, caller)
		c.Next()
	})
	r.GET("/borrowings", h.ListBorrowings)
	r.POST("/borrowings", h.CreateBorrowing)
	r.GET("/borrowings/:id", h.GetBorrowing)
	r.DELETE("/borrowings/:id", h.ReturnBorrowing)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestBorrowingHandler_CreateConflictAndReturn(t *testing.T) {
	store := memstore.New()
	user := store.AddUser("alice", false)
	book := &bookModel.Book{Title: "Dune", Author: "Herbert", ISBN: "111", Availability: true}
	require.NoError(t, store.Books().Create(context.Background(), book))

	svc := service.NewBorrowingService(store.Borrowings(), store.Books(), store, memstore.NewCache())
	r := setupRouter(shared.Caller{UserID: user.ID, Username: user.Username}, NewHandler(svc))

	w, env := do(t, r, http.MethodPost, "/borrowings", map[string]any{
		"book_id":     book.ID.String(),
		"borrow_date": "2024-01-01",
		"return_date": "2024-01-10",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID       string `json:"id"`
		BookName string `json:"book_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Dune", created.BookName)

	w, env = do(t, r, http.MethodPost, "/borrowings", map[string]any{
		"book_id":     book.ID.String(),
		"borrow_date": "2024-01-05",
		"return_date": "2024-01-12",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "The book is not available for borrowing on these dates.", env.Error.Message)

	w, env = do(t, r, http.MethodDelete, "/borrowings/"+created.ID, map[string]any{"scanned_isbn": "222"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Book with this ISBN not found.", env.Error.Message)

	w, _ = do(t, r, http.MethodDelete, "/borrowings/"+created.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodDelete, "/borrowings/"+created.ID, map[string]any{"scanned_isbn": "111"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestBorrowingHandler_ValidationErrors(t *testing.T) {
	store := memstore.New()
	user := store.AddUser("alice", false)
	svc := service.NewBorrowingService(store.Borrowings(), store.Books(), store, memstore.NewCache())
	r := setupRouter(shared.Caller{UserID: user.ID, Username: user.Username}, NewHandler(svc))

	w, env := do(t, r, http.MethodPost, "/borrowings", map[string]any{"borrow_date": "01/01/2024"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	w, _ = do(t, r, http.MethodGet, "/borrowings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/borrowings", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}
