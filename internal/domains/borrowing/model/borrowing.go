package model

import (
	"time"

	"github.com/google/uuid"
)

// ============ ENTITIES ============

// Borrowing - one loan of a book to a borrower over a date range
type Borrowing struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	BookID     uuid.UUID  `json:"book_id" db:"book_id"`
	BorrowerID uuid.UUID  `json:"borrower_id" db:"borrower_id"`
	BorrowDate time.Time  `json:"borrow_date" db:"borrow_date"`
	ReturnDate *time.Time `json:"return_date" db:"return_date"` // nil = open loan
	ReturnedAt *time.Time `json:"returned_at" db:"returned_at"` // set when the copy came back

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (b *Borrowing) IsReturned() bool {
	return b.ReturnedAt != nil
}

func (b *Borrowing) Range() DateRange {
	return DateRange{Start: b.BorrowDate, End: b.ReturnDate}
}

// IsActiveOn reports whether the loan holds the copy on day
func (b *Borrowing) IsActiveOn(day time.Time) bool {
	return !b.IsReturned() && b.Range().Contains(day)
}

// NumberOfDaysBorrowed is nil for open loans
func (b *Borrowing) NumberOfDaysBorrowed() *int {
	if b.ReturnDate == nil {
		return nil
	}
	days := int(b.ReturnDate.Sub(b.BorrowDate).Hours() / 24)
	return &days
}

// BorrowingDetail - Borrowing joined with its book and borrower
type BorrowingDetail struct {
	Borrowing
	BookTitle        string `db:"book_title"`
	BookISBN         string `db:"book_isbn"`
	BorrowerUsername string `db:"borrower_username"`
}
