package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"library-backend/internal/shared/utils"
)

// ============ REQUESTS ============

// CreateBorrowingRequest - POST /borrowings
type CreateBorrowingRequest struct {
	BookID     string  `json:"book_id"`
	BorrowerID string  `json:"borrower_id,omitempty"` // staff only, defaults to caller
	BorrowDate string  `json:"borrow_date"`
	ReturnDate *string `json:"return_date"`
}

func (r CreateBorrowingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("book_id is required"), is.UUID),
		validation.Field(&r.BorrowerID, is.UUID),
		validation.Field(&r.BorrowDate,
			validation.Required.Error("borrow_date is required"),
			validation.Date(utils.DateLayout).Error("borrow_date must be YYYY-MM-DD"),
		),
		validation.Field(&r.ReturnDate,
			validation.NilOrNotEmpty,
			validation.Date(utils.DateLayout).Error("return_date must be YYYY-MM-DD"),
		),
	)
}

// Range parses the dates. Call after Validate.
func (r CreateBorrowingRequest) Range() (DateRange, error) {
	return parseRange(r.BorrowDate, r.ReturnDate)
}

// UpdateBorrowingRequest - PUT /borrowings/:id
type UpdateBorrowingRequest struct {
	BorrowDate string  `json:"borrow_date"`
	ReturnDate *string `json:"return_date"`
}

func (r UpdateBorrowingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BorrowDate,
			validation.Required.Error("borrow_date is required"),
			validation.Date(utils.DateLayout).Error("borrow_date must be YYYY-MM-DD"),
		),
		validation.Field(&r.ReturnDate,
			validation.NilOrNotEmpty,
			validation.Date(utils.DateLayout).Error("return_date must be YYYY-MM-DD"),
		),
	)
}

func (r UpdateBorrowingRequest) Range() (DateRange, error) {
	return parseRange(r.BorrowDate, r.ReturnDate)
}

// ReturnBorrowingRequest - DELETE /borrowings/:id. Emptiness is checked by the service.
type ReturnBorrowingRequest struct {
	ScannedISBN string `json:"scanned_isbn"`
}

// ListBorrowingsRequest - GET /borrowings query
type ListBorrowingsRequest struct {
	BookID     string `form:"book_id"`
	BorrowerID string `form:"borrower_id"`
	Active     *bool  `form:"active"`
}

func (r ListBorrowingsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, is.UUID),
		validation.Field(&r.BorrowerID, is.UUID),
	)
}

// BorrowingFilter is what the repository understands
type BorrowingFilter struct {
	BookID     *uuid.UUID
	BorrowerID *uuid.UUID
	ActiveOnly bool // returned_at IS NULL
}

func (r ListBorrowingsRequest) ToFilter() BorrowingFilter {
	var f BorrowingFilter
	if id, err := uuid.Parse(r.BookID); err == nil {
		f.BookID = &id
	}
	if id, err := uuid.Parse(r.BorrowerID); err == nil {
		f.BorrowerID = &id
	}
	if r.Active != nil && *r.Active {
		f.ActiveOnly = true
	}
	return f
}

// ============ RESPONSES ============

type BorrowingResponse struct {
	ID                   uuid.UUID  `json:"id"`
	BookID               uuid.UUID  `json:"book"`
	BookName             string     `json:"book_name"`
	BookISBN             string     `json:"book_isbn"`
	BorrowerID           uuid.UUID  `json:"borrower"`
	BorrowerUsername     string     `json:"borrower_username"`
	BorrowDate           string     `json:"borrow_date"`
	ReturnDate           *string    `json:"return_date"`
	ReturnedAt           *time.Time `json:"returned_at,omitempty"`
	NumberOfDaysBorrowed *int       `json:"number_of_days_borrowed"`
}

func ToBorrowingResponse(d *BorrowingDetail) BorrowingResponse {
	resp := BorrowingResponse{
		ID:                   d.ID,
		BookID:               d.BookID,
		BookName:             d.BookTitle,
		BookISBN:             d.BookISBN,
		BorrowerID:           d.BorrowerID,
		BorrowerUsername:     d.BorrowerUsername,
		BorrowDate:           utils.FormatDate(d.BorrowDate),
		ReturnedAt:           d.ReturnedAt,
		NumberOfDaysBorrowed: d.NumberOfDaysBorrowed(),
	}
	if d.ReturnDate != nil {
		s := utils.FormatDate(*d.ReturnDate)
		resp.ReturnDate = &s
	}
	return resp
}

func ToBorrowingResponses(details []*BorrowingDetail) []BorrowingResponse {
	out := make([]BorrowingResponse, 0, len(details))
	for _, d := range details {
		out = append(out, ToBorrowingResponse(d))
	}
	return out
}

func parseRange(borrowDate string, returnDate *string) (DateRange, error) {
	start, err := utils.ParseDate(borrowDate)
	if err != nil {
		return DateRange{}, ErrInvalidDateRange.Wrap(err)
	}
	r := DateRange{Start: start}
	if returnDate != nil {
		end, err := utils.ParseDate(*returnDate)
		if err != nil {
			return DateRange{}, ErrInvalidDateRange.Wrap(err)
		}
		r.End = &end
	}
	if !r.Valid() {
		return DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}
