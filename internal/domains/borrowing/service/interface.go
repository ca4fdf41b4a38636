package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/borrowing/model"
	"library-backend/internal/shared"
)

// ServiceInterface - borrowing lifecycle. Every method is scoped by caller:
// non-staff callers only see and touch their own borrowings.
type ServiceInterface interface {
	List(ctx context.Context, caller shared.Caller, req model.ListBorrowingsRequest) ([]model.BorrowingResponse, error)
	Get(ctx context.Context, caller shared.Caller, id uuid.UUID) (*model.BorrowingResponse, error)

	// Create rejects ranges overlapping another unreturned borrowing of the book
	Create(ctx context.Context, caller shared.Caller, req model.CreateBorrowingRequest) (*model.BorrowingResponse, error)

	// Update moves the range; the edited borrowing is excluded from the overlap check
	Update(ctx context.Context, caller shared.Caller, id uuid.UUID, req model.UpdateBorrowingRequest) (*model.BorrowingResponse, error)

	// ReturnBook closes the borrowing when scannedISBN matches the borrowed book.
	// A mismatch changes nothing.
	ReturnBook(ctx context.Context, caller shared.Caller, id uuid.UUID, scannedISBN string) (*model.BorrowingResponse, error)

	// Delete removes the record (staff only)
	Delete(ctx context.Context, caller shared.Caller, id uuid.UUID) error
}
