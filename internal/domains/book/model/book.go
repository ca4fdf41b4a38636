package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ============ ENTITIES ============

// Book - Domain Entity (from database)
type Book struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Title  string    `json:"title" db:"title"`
	Author string    `json:"author" db:"author"`
	ISBN   string    `json:"isbn" db:"isbn"`

	// Derived from the borrowing ledger. Never set from requests.
	Availability bool `json:"availability" db:"availability"`

	// MinIO object key, nil when no cover was uploaded
	CoverKey *string `json:"cover_key,omitempty" db:"cover_key"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CacheKeyPattern matches every detail entry
const CacheKeyPattern = "book:detail:*"

// CacheKey - detail cache entry of a book
func CacheKey(id uuid.UUID) string {
	return fmt.Sprintf("book:detail:%s", id)
}

// BookFilter - Filter object for database query
type BookFilter struct {
	Title         string // case-insensitive containment
	OnlyAvailable bool   // availability = true
	Window        Window
}
