package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

// maxCoverUpload bounds the bytes read from the multipart field
const maxCoverUpload = 5<<20 + 1

// Handler - HTTP Handler (single file)
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

func bookID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func caller(c *gin.Context) (shared.Caller, bool) {
	cl, ok := middleware.GetCaller(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
	}
	return cl, ok
}

// ListBooks - GET /books
// Query params: title, borrowing_date, returning_date
func (h *Handler) ListBooks(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req model.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	books, err := h.service.ListBooks(c.Request.Context(), cl, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Books retrieved successfully", books, &response.Meta{Total: len(books)})
}

// GetBook - GET /books/:id
func (h *Handler) GetBook(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := bookID(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), cl, id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book retrieved successfully", book)
}

// CreateBook - POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), cl, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Book created successfully", book)
}

// UpdateBook - PUT /books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), cl, id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook - DELETE /books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := bookID(c)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteBook(c.Request.Context(), cl, id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book deleted successfully", deleted)
}

// UploadCover - PUT /books/:id/cover, multipart field "cover"
func (h *Handler) UploadCover(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := bookID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("cover")
	if err != nil {
		response.BadRequest(c, "cover is required (multipart/form-data)", nil)
		return
	}
	src, err := fh.Open()
	if err != nil {
		response.HandleError(c, fmt.Errorf("open cover upload: %w", err))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxCoverUpload))
	if err != nil {
		response.HandleError(c, fmt.Errorf("read cover upload: %w", err))
		return
	}

	book, err := h.service.UploadCover(c.Request.Context(), cl, id, data)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Cover uploaded successfully", book)
}

// ExportBooks - GET /admin/books/export, same filters as ListBooks
func (h *Handler) ExportBooks(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req model.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	f, count, err := h.service.ExportBooksToExcel(c.Request.Context(), cl, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("books_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Int("rows", count).Msg("write export workbook")
	}
}
