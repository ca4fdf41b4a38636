package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type BulkImportHandler struct {
	service service.BulkImportService
}

// NewBulkImportHandler tạo handler mới
func NewBulkImportHandler(service service.BulkImportService) *BulkImportHandler {
	return &BulkImportHandler{service: service}
}

// ImportBooks - POST /admin/books/import
// Yêu cầu: staff (middleware check trước khi vào handler)
func (h *BulkImportHandler) ImportBooks(c *gin.Context) {
	cl, ok := middleware.GetCaller(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		log.Debug().Err(err).Msg("Failed to get file from request")
		response.BadRequest(c, "file is required (multipart/form-data)", nil)
		return
	}

	result, err := h.service.ImportBooks(c.Request.Context(), cl, file)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	// Nếu result.Success = false → 422 với chi tiết lỗi từng row
	if !result.Success {
		response.Error(c, http.StatusUnprocessableEntity, "IMPORT_VALIDATION_FAILED", "Bulk import validation failed", result)
		return
	}

	response.Success(c, http.StatusCreated, "Bulk import completed successfully", result)
}
