package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/borrowing/model"
	"library-backend/internal/domains/borrowing/service"
	"library-backend/internal/shared"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

func callerAndID(c *gin.Context) (shared.Caller, uuid.UUID, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return shared.Caller{}, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid borrowing ID", nil)
		return shared.Caller{}, uuid.Nil, false
	}
	return caller, id, true
}

// ListBorrowings GET /borrowings
func (h *Handler) ListBorrowings(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.ListBorrowingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	items, err := h.service.List(c.Request.Context(), caller, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Borrowings retrieved successfully", items, &response.Meta{Total: len(items)})
}

// CreateBorrowing POST /borrowings
func (h *Handler) CreateBorrowing(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.CreateBorrowingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/borrowings/"+created.ID.String())
	response.Success(c, http.StatusCreated, "Borrowing created successfully", created)
}

// GetBorrowing GET /borrowings/:id
func (h *Handler) GetBorrowing(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), caller, id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Borrowing retrieved successfully", b)
}

// UpdateBorrowing PUT /borrowings/:id
func (h *Handler) UpdateBorrowing(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}

	var req model.UpdateBorrowingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Borrowing updated successfully", updated)
}

// ReturnBorrowing DELETE /borrowings/:id
// Trả sách: body {"scanned_isbn": "..."} phải khớp ISBN của sách đã mượn
func (h *Handler) ReturnBorrowing(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}

	var req model.ReturnBorrowingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	returned, err := h.service.ReturnBook(c.Request.Context(), caller, id, req.ScannedISBN)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book returned successfully", returned)
}

// DeleteBorrowing DELETE /admin/borrowings/:id
func (h *Handler) DeleteBorrowing(c *gin.Context) {
	caller, id, ok := callerAndID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Borrowing deleted successfully", nil)
}
