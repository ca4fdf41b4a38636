// Package memstore provides in-memory implementations of the repositories,
// the transaction manager and the cache for service tests.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	bookModel "library-backend/internal/domains/book/model"
	borrowingModel "library-backend/internal/domains/borrowing/model"
	userModel "library-backend/internal/domains/user/model"
)

// Store holds every table. WithinTx takes the store lock for the whole
// callback, so transactions are fully serialized.
type Store struct {
	mu         sync.Mutex
	books      map[uuid.UUID]bookModel.Book
	borrowings map[uuid.UUID]borrowingModel.Borrowing
	users      map[uuid.UUID]userModel.User
}

func New() *Store {
	return &Store{
		books:      make(map[uuid.UUID]bookModel.Book),
		borrowings: make(map[uuid.UUID]borrowingModel.Borrowing),
		users:      make(map[uuid.UUID]userModel.User),
	}
}

type txKey struct{ s *Store }

func (s *Store) inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{s}).(bool)
	return v
}

// lock acquires the store lock unless ctx is inside WithinTx
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTx implements database.TxManager. Changes are rolled back when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	books := cloneMap(s.books)
	borrowings := cloneMap(s.borrowings)
	users := cloneMap(s.users)

	if err := fn(context.WithValue(ctx, txKey{s}, true)); err != nil {
		s.books, s.borrowings, s.users = books, borrowings, users
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Books returns the catalog repository view of the store
func (s *Store) Books() *BookRepo { return &BookRepo{s: s} }

// Borrowings returns the ledger repository view of the store
func (s *Store) Borrowings() *BorrowingRepo { return &BorrowingRepo{s: s} }

// Users returns the user repository view of the store
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// BookCount is a test helper
func (s *Store) BookCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books)
}

// BorrowingCount is a test helper
func (s *Store) BorrowingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.borrowings)
}
