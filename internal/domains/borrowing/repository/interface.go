package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/borrowing/model"
)

// RepositoryInterface - borrowing ledger. Calls join the transaction carried by ctx.
type RepositoryInterface interface {
	Create(ctx context.Context, b *model.Borrowing) error
	Update(ctx context.Context, b *model.Borrowing) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Borrowing, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Borrowing, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*model.BorrowingDetail, error)
	List(ctx context.Context, filter model.BorrowingFilter) ([]*model.BorrowingDetail, error)

	// FindOverlapping returns non-returned borrowings of bookID, other than
	// excludeID, whose range intersects r inclusively
	FindOverlapping(ctx context.Context, bookID uuid.UUID, r model.DateRange, excludeID uuid.UUID) ([]*model.Borrowing, error)

	// CurrentBorrowers maps book id to the username holding it on day
	CurrentBorrowers(ctx context.Context, bookIDs []uuid.UUID, day time.Time) (map[uuid.UUID]string, error)
}
