package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-backend/internal/shared/utils"
)

// isbn: up to 13 characters, digits with an optional trailing X
var isbnRule = validation.Match(regexp.MustCompile(`^[0-9]{0,12}[0-9X]$`)).Error("isbn must be up to 13 digits, optionally ending in X")

// ============ REQUESTS ============

// ListBooksRequest - Query parameters
type ListBooksRequest struct {
	Title         string `form:"title"`
	BorrowingDate string `form:"borrowing_date"` // YYYY-MM-DD
	ReturningDate string `form:"returning_date"` // YYYY-MM-DD
}

func (r ListBooksRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 200)),
		validation.Field(&r.BorrowingDate, validation.Date(utils.DateLayout).Error("borrowing_date must be YYYY-MM-DD")),
		validation.Field(&r.ReturningDate, validation.Date(utils.DateLayout).Error("returning_date must be YYYY-MM-DD")),
	)
}

// ToFilter builds the repository filter. Call after Validate.
func (r ListBooksRequest) ToFilter(onlyAvailable bool) BookFilter {
	f := BookFilter{
		Title:         strings.TrimSpace(r.Title),
		OnlyAvailable: onlyAvailable,
	}
	if t, err := utils.ParseDate(r.BorrowingDate); err == nil && r.BorrowingDate != "" {
		f.Window.From = &t
	}
	if t, err := utils.ParseDate(r.ReturningDate); err == nil && r.ReturningDate != "" {
		f.Window.To = &t
	}
	return f
}

// CreateBookRequest - POST /books
type CreateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, 200)),
		validation.Field(&r.Author, validation.Required.Error("author is required"), validation.Length(1, 100)),
		validation.Field(&r.ISBN, validation.Required.Error("isbn is required"), isbnRule),
	)
}

// UpdateBookRequest - PUT /books/:id, nil fields are left unchanged
type UpdateBookRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	ISBN   *string `json:"isbn"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Author, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.ISBN, validation.NilOrNotEmpty, isbnRule),
	)
}

// Apply copies the set fields onto b
func (r UpdateBookRequest) Apply(b *Book) {
	if r.Title != nil {
		b.Title = strings.TrimSpace(*r.Title)
	}
	if r.Author != nil {
		b.Author = strings.TrimSpace(*r.Author)
	}
	if r.ISBN != nil {
		b.ISBN = strings.TrimSpace(*r.ISBN)
	}
}

// ============ RESPONSES ============

type DeleteBookResponse struct {
	ID        string    `json:"id"`
	DeletedAt time.Time `json:"deleted_at"`
}
