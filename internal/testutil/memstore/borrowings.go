package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/borrowing/model"
)

// BorrowingRepo implements the borrowing repository over a Store
type BorrowingRepo struct {
	s *Store
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (r *BorrowingRepo) Create(ctx context.Context, b *model.Borrowing) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.books[b.BookID]; !ok {
		return model.ErrBookNotFound
	}
	if _, ok := r.s.users[b.BorrowerID]; !ok {
		return model.ErrBorrowerNotFound
	}
	for _, existing := range r.s.borrowings {
		if existing.BorrowerID == b.BorrowerID && existing.BookID == b.BookID &&
			existing.BorrowDate.Equal(b.BorrowDate) && sameDay(existing.ReturnDate, b.ReturnDate) {
			return model.ErrDuplicateBorrowing
		}
	}

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	r.s.borrowings[b.ID] = *b
	return nil
}

func (r *BorrowingRepo) Update(ctx context.Context, b *model.Borrowing) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.borrowings[b.ID]; !ok {
		return model.ErrBorrowingNotFound
	}
	for id, existing := range r.s.borrowings {
		if id != b.ID && existing.BorrowerID == b.BorrowerID && existing.BookID == b.BookID &&
			existing.BorrowDate.Equal(b.BorrowDate) && sameDay(existing.ReturnDate, b.ReturnDate) {
			return model.ErrDuplicateBorrowing
		}
	}
	b.UpdatedAt = time.Now()
	r.s.borrowings[b.ID] = *b
	return nil
}

func (r *BorrowingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.borrowings[id]; !ok {
		return model.ErrBorrowingNotFound
	}
	delete(r.s.borrowings, id)
	return nil
}

func (r *BorrowingRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Borrowing, error) {
	defer r.s.lock(ctx)()
	b, ok := r.s.borrowings[id]
	if !ok {
		return nil, model.ErrBorrowingNotFound
	}
	return &b, nil
}

func (r *BorrowingRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Borrowing, error) {
	return r.GetByID(ctx, id)
}

func (r *BorrowingRepo) detail(b model.Borrowing) *model.BorrowingDetail {
	d := &model.BorrowingDetail{Borrowing: b}
	if book, ok := r.s.books[b.BookID]; ok {
		d.BookTitle, d.BookISBN = book.Title, book.ISBN
	}
	if u, ok := r.s.users[b.BorrowerID]; ok {
		d.BorrowerUsername = u.Username
	}
	return d
}

func (r *BorrowingRepo) GetDetail(ctx context.Context, id uuid.UUID) (*model.BorrowingDetail, error) {
	defer r.s.lock(ctx)()
	b, ok := r.s.borrowings[id]
	if !ok {
		return nil, model.ErrBorrowingNotFound
	}
	return r.detail(b), nil
}

func (r *BorrowingRepo) List(ctx context.Context, filter model.BorrowingFilter) ([]*model.BorrowingDetail, error) {
	defer r.s.lock(ctx)()

	var out []*model.BorrowingDetail
	for _, b := range r.s.borrowings {
		if filter.BookID != nil && b.BookID != *filter.BookID {
			continue
		}
		if filter.BorrowerID != nil && b.BorrowerID != *filter.BorrowerID {
			continue
		}
		if filter.ActiveOnly && b.IsReturned() {
			continue
		}
		out = append(out, r.detail(b))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].BorrowDate.Equal(out[j].BorrowDate) {
			return out[i].BorrowDate.After(out[j].BorrowDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *BorrowingRepo) FindOverlapping(ctx context.Context, bookID uuid.UUID, rng model.DateRange, excludeID uuid.UUID) ([]*model.Borrowing, error) {
	defer r.s.lock(ctx)()

	var out []*model.Borrowing
	for _, b := range r.s.borrowings {
		if b.BookID != bookID || b.ID == excludeID || b.IsReturned() {
			continue
		}
		if model.OverlapsInclusive(rng, b.Range()) {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BorrowDate.Before(out[j].BorrowDate) })
	return out, nil
}

func (r *BorrowingRepo) CurrentBorrowers(ctx context.Context, bookIDs []uuid.UUID, day time.Time) (map[uuid.UUID]string, error) {
	defer r.s.lock(ctx)()

	wanted := make(map[uuid.UUID]bool, len(bookIDs))
	for _, id := range bookIDs {
		wanted[id] = true
	}

	earliest := make(map[uuid.UUID]model.Borrowing)
	for _, b := range r.s.borrowings {
		if !wanted[b.BookID] || !b.IsActiveOn(day) {
			continue
		}
		if cur, ok := earliest[b.BookID]; !ok || b.BorrowDate.Before(cur.BorrowDate) {
			earliest[b.BookID] = b
		}
	}

	out := make(map[uuid.UUID]string, len(earliest))
	for bookID, b := range earliest {
		out[bookID] = r.s.users[b.BorrowerID].Username
	}
	return out, nil
}
