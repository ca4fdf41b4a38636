package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared"
)

// ServiceInterface - Định nghĩa business logic methods
type ServiceInterface interface {
	// ListBooks returns role-scoped views; non-staff only see available books
	ListBooks(ctx context.Context, caller shared.Caller, req model.ListBooksRequest) ([]model.BookView, error)
	GetBook(ctx context.Context, caller shared.Caller, id uuid.UUID) (model.BookView, error)
	CreateBook(ctx context.Context, caller shared.Caller, req model.CreateBookRequest) (model.BookView, error)
	UpdateBook(ctx context.Context, caller shared.Caller, id uuid.UUID, req model.UpdateBookRequest) (model.BookView, error)
	// DeleteBook removes the book and its borrowings; cover cleanup is best effort
	DeleteBook(ctx context.Context, caller shared.Caller, id uuid.UUID) (*model.DeleteBookResponse, error)
	UploadCover(ctx context.Context, caller shared.Caller, id uuid.UUID, data []byte) (model.BookView, error)
	ExportBooksToExcel(ctx context.Context, caller shared.Caller, req model.ListBooksRequest) (*excelize.File, int, error)
}

// BulkImportService imports books from an .xlsx workbook
type BulkImportService interface {
	ImportBooks(ctx context.Context, caller shared.Caller, file *multipart.FileHeader) (*model.BulkImportResult, error)
}

// ========================================
// COLLABORATORS
// ========================================

// BorrowingReader resolves who holds each book on a day
type BorrowingReader interface {
	CurrentBorrowers(ctx context.Context, bookIDs []uuid.UUID, day time.Time) (map[uuid.UUID]string, error)
}

// CoverStorage is satisfied by *storage.MinIOStorage
type CoverStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	ObjectURL(key string) string
}

// CoverProcessor validates and resizes uploaded covers
type CoverProcessor interface {
	NormalizeCover(data []byte) ([]byte, error)
}

// TaskEnqueuer is satisfied by *queue.Client
type TaskEnqueuer interface {
	EnqueueDeleteCover(ctx context.Context, payload shared.DeleteCoverPayload) error
}
