package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

// RepositoryInterface - catalog store. Calls join the transaction carried by ctx.
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	// CreateBatch inserts all books or none
	CreateBatch(ctx context.Context, books []*model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*model.Book, error)
	// ExistingISBNs returns which of isbns are already taken
	ExistingISBNs(ctx context.Context, isbns []string) (map[string]bool, error)
	ISBNExistsExcept(ctx context.Context, isbn string, excludeID uuid.UUID) (bool, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]*model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	UpdateCover(ctx context.Context, id uuid.UUID, coverKey *string) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	// RecomputeAvailability sets availability = no active borrowing on day,
	// for ids (all books when ids is empty), and returns the ids that changed
	RecomputeAvailability(ctx context.Context, ids []uuid.UUID, day time.Time) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
