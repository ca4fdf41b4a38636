package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

// BookRepo implements the book repository over a Store
type BookRepo struct {
	s *Store
}

func (r *BookRepo) Create(ctx context.Context, book *model.Book) error {
	defer r.s.lock(ctx)()
	return r.create(book)
}

func (r *BookRepo) create(book *model.Book) error {
	for _, b := range r.s.books {
		if b.ISBN == book.ISBN {
			return model.ErrISBNAlreadyExists
		}
	}
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	now := time.Now()
	book.CreatedAt, book.UpdatedAt = now, now
	r.s.books[book.ID] = *book
	return nil
}

func (r *BookRepo) CreateBatch(ctx context.Context, books []*model.Book) error {
	defer r.s.lock(ctx)()
	snapshot := cloneMap(r.s.books)
	for _, b := range books {
		if err := r.create(b); err != nil {
			r.s.books = snapshot
			return err
		}
	}
	return nil
}

func (r *BookRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	defer r.s.lock(ctx)()
	b, ok := r.s.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	return &b, nil
}

func (r *BookRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return r.GetByID(ctx, id)
}

func (r *BookRepo) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	defer r.s.lock(ctx)()
	for _, b := range r.s.books {
		if b.ISBN == isbn {
			return &b, nil
		}
	}
	return nil, model.ErrBookNotFound
}

func (r *BookRepo) ExistingISBNs(ctx context.Context, isbns []string) (map[string]bool, error) {
	defer r.s.lock(ctx)()
	wanted := make(map[string]bool, len(isbns))
	for _, isbn := range isbns {
		wanted[isbn] = true
	}
	existing := make(map[string]bool)
	for _, b := range r.s.books {
		if wanted[b.ISBN] {
			existing[b.ISBN] = true
		}
	}
	return existing, nil
}

func (r *BookRepo) ISBNExistsExcept(ctx context.Context, isbn string, excludeID uuid.UUID) (bool, error) {
	defer r.s.lock(ctx)()
	for _, b := range r.s.books {
		if b.ISBN == isbn && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookRepo) ListBooks(ctx context.Context, filter model.BookFilter) ([]*model.Book, error) {
	defer r.s.lock(ctx)()

	title := strings.ToLower(filter.Title)
	var out []*model.Book
	for _, b := range r.s.books {
		if title != "" && !strings.Contains(strings.ToLower(b.Title), title) {
			continue
		}
		if filter.OnlyAvailable && !b.Availability {
			continue
		}
		if !filter.Window.IsZero() && r.blocked(b.ID, filter.Window) {
			continue
		}
		b := b
		out = append(out, &b)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *BookRepo) blocked(bookID uuid.UUID, w model.Window) bool {
	for _, br := range r.s.borrowings {
		if br.BookID == bookID && w.BlockedBy(br.Range()) {
			return true
		}
	}
	return false
}

func (r *BookRepo) Update(ctx context.Context, book *model.Book) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.books[book.ID]
	if !ok {
		return model.ErrBookNotFound
	}
	for _, b := range r.s.books {
		if b.ISBN == book.ISBN && b.ID != book.ID {
			return model.ErrISBNAlreadyExists
		}
	}
	stored.Title, stored.Author, stored.ISBN = book.Title, book.Author, book.ISBN
	stored.UpdatedAt = time.Now()
	book.UpdatedAt = stored.UpdatedAt
	r.s.books[book.ID] = stored
	return nil
}

func (r *BookRepo) UpdateCover(ctx context.Context, id uuid.UUID, coverKey *string) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	stored.CoverKey = coverKey
	r.s.books[id] = stored
	return nil
}

func (r *BookRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	stored.Availability = available
	r.s.books[id] = stored
	return nil
}

func (r *BookRepo) RecomputeAvailability(ctx context.Context, ids []uuid.UUID, day time.Time) ([]uuid.UUID, error) {
	defer r.s.lock(ctx)()

	targets := ids
	if len(targets) == 0 {
		for id := range r.s.books {
			targets = append(targets, id)
		}
	}

	var changed []uuid.UUID
	for _, id := range targets {
		b, ok := r.s.books[id]
		if !ok {
			continue
		}
		available := true
		for _, br := range r.s.borrowings {
			if br.BookID == id && br.IsActiveOn(day) {
				available = false
				break
			}
		}
		if b.Availability != available {
			b.Availability = available
			r.s.books[id] = b
			changed = append(changed, id)
		}
	}
	return changed, nil
}

// Delete cascades to borrowings
func (r *BookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.s.books, id)
	for brID, br := range r.s.borrowings {
		if br.BookID == id {
			delete(r.s.borrowings, brID)
		}
	}
	return nil
}
