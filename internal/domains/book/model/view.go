package model

import (
	"github.com/google/uuid"

	"library-backend/internal/shared"
)

// BookView is either a StaffBookView or a PublicBookView
type BookView interface {
	bookView()
}

// StaffBookView exposes the stored availability and who holds the book today
type StaffBookView struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	CoverURL        string    `json:"book_cover"`
	Availability    bool      `json:"availability"`
	CurrentBorrower string    `json:"current_borrower"`
}

// PublicBookView hides the borrower and reports is_available only
type PublicBookView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	CoverURL    string    `json:"book_cover"`
	IsAvailable bool      `json:"is_available"`
}

func (StaffBookView) bookView()  {}
func (PublicBookView) bookView() {}

// ViewFor selects the representation by role
func ViewFor(caller shared.Caller, b *Book, coverURL, currentBorrower string, isAvailable bool) BookView {
	if caller.IsStaff {
		return StaffBookView{
			ID:              b.ID,
			Title:           b.Title,
			Author:          b.Author,
			ISBN:            b.ISBN,
			CoverURL:        coverURL,
			Availability:    b.Availability,
			CurrentBorrower: currentBorrower,
		}
	}
	return PublicBookView{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		CoverURL:    coverURL,
		IsAvailable: isAvailable,
	}
}
