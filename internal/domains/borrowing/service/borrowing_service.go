package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	bookModel "library-backend/internal/domains/book/model"
	bookRepo "library-backend/internal/domains/book/repository"
	"library-backend/internal/domains/borrowing/model"
	"library-backend/internal/domains/borrowing/repository"
	"library-backend/internal/shared"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
	"library-backend/pkg/database"
)

type BorrowingService struct {
	repo  repository.RepositoryInterface
	books bookRepo.RepositoryInterface
	tx    database.TxManager
	cache cache.Cache
	now   func() time.Time
}

func NewBorrowingService(
	repo repository.RepositoryInterface,
	books bookRepo.RepositoryInterface,
	tx database.TxManager,
	c cache.Cache,
) *BorrowingService {
	return &BorrowingService{
		repo:  repo,
		books: books,
		tx:    tx,
		cache: c,
		now:   time.Now,
	}
}

// WithClock overrides the time source (tests)
func (s *BorrowingService) WithClock(now func() time.Time) *BorrowingService {
	s.now = now
	return s
}

func (s *BorrowingService) today() time.Time {
	return utils.DateOnly(s.now())
}

// ========================================
// QUERIES
// ========================================

func (s *BorrowingService) List(ctx context.Context, caller shared.Caller, req model.ListBorrowingsRequest) ([]model.BorrowingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := req.ToFilter()
	if !caller.IsStaff {
		own := caller.UserID
		filter.BorrowerID = &own
	}

	details, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list borrowings: %w", err)
	}
	return model.ToBorrowingResponses(details), nil
}

func (s *BorrowingService) Get(ctx context.Context, caller shared.Caller, id uuid.UUID) (*model.BorrowingResponse, error) {
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(caller, &d.Borrowing); err != nil {
		return nil, err
	}
	resp := model.ToBorrowingResponse(d)
	return &resp, nil
}

func checkOwner(caller shared.Caller, b *model.Borrowing) error {
	if caller.IsStaff || b.BorrowerID == caller.UserID {
		return nil
	}
	return model.ErrNotBorrowingOwner
}

// ========================================
// MUTATIONS
// ========================================

func (s *BorrowingService) Create(ctx context.Context, caller shared.Caller, req model.CreateBorrowingRequest) (*model.BorrowingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rng, err := req.Range()
	if err != nil {
		return nil, err
	}

	bookID := uuid.MustParse(req.BookID)
	borrowerID := caller.UserID
	if req.BorrowerID != "" {
		borrowerID = uuid.MustParse(req.BorrowerID)
		if borrowerID != caller.UserID && !caller.IsStaff {
			return nil, model.ErrBorrowerNotAllowed
		}
	}

	b := &model.Borrowing{
		ID:         uuid.New(),
		BookID:     bookID,
		BorrowerID: borrowerID,
		BorrowDate: rng.Start,
		ReturnDate: rng.End,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// book row lock serializes concurrent bookings of the same book
		if _, err := s.books.GetByIDForUpdate(ctx, bookID); err != nil {
			return mapBookErr(err)
		}

		existing, err := s.repo.FindOverlapping(ctx, bookID, rng, uuid.Nil)
		if err != nil {
			return fmt.Errorf("find overlapping: %w", err)
		}
		if conflict := model.FirstConflict(rng, existing, uuid.Nil); conflict != nil {
			log.Debug().
				Str("book_id", bookID.String()).
				Str("conflict_id", conflict.ID.String()).
				Msg("borrowing rejected: overlap")
			return model.ErrBookUnavailable
		}

		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		return s.recompute(ctx, bookID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBook(ctx, bookID)
	log.Info().
		Str("borrowing_id", b.ID.String()).
		Str("book_id", bookID.String()).
		Str("borrower_id", borrowerID.String()).
		Msg("borrowing created")

	return s.Get(ctx, caller, b.ID)
}

func (s *BorrowingService) Update(ctx context.Context, caller shared.Caller, id uuid.UUID, req model.UpdateBorrowingRequest) (*model.BorrowingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rng, err := req.Range()
	if err != nil {
		return nil, err
	}

	var bookID uuid.UUID
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(caller, b); err != nil {
			return err
		}
		if b.IsReturned() {
			return model.ErrReturnedNotEditable
		}
		bookID = b.BookID

		if _, err := s.books.GetByIDForUpdate(ctx, b.BookID); err != nil {
			return mapBookErr(err)
		}

		existing, err := s.repo.FindOverlapping(ctx, b.BookID, rng, b.ID)
		if err != nil {
			return fmt.Errorf("find overlapping: %w", err)
		}
		if model.FirstConflict(rng, existing, b.ID) != nil {
			return model.ErrEditUnavailable
		}

		b.BorrowDate = rng.Start
		b.ReturnDate = rng.End
		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		return s.recompute(ctx, b.BookID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBook(ctx, bookID)
	return s.Get(ctx, caller, id)
}

func (s *BorrowingService) ReturnBook(ctx context.Context, caller shared.Caller, id uuid.UUID, scannedISBN string) (*model.BorrowingResponse, error) {
	scannedISBN = strings.TrimSpace(scannedISBN)
	if scannedISBN == "" {
		return nil, model.ErrScannedISBNRequired
	}

	var bookID uuid.UUID
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(caller, b); err != nil {
			return err
		}
		if b.IsReturned() {
			return model.ErrAlreadyReturned
		}

		book, err := s.books.GetByIDForUpdate(ctx, b.BookID)
		if err != nil {
			return mapBookErr(err)
		}
		bookID = book.ID

		scanned, err := s.books.GetByISBN(ctx, scannedISBN)
		if err != nil {
			if errors.Is(err, bookModel.ErrBookNotFound) {
				return model.ErrScannedISBNNotFound
			}
			return fmt.Errorf("lookup scanned isbn: %w", err)
		}
		if scanned.ISBN != book.ISBN {
			return model.ErrISBNMismatch
		}

		now := s.now()
		today := utils.DateOnly(now)
		wasActive := b.IsActiveOn(today)
		// a loan returned before it starts is closed as a same-day loan
		if today.Before(b.BorrowDate) {
			b.BorrowDate = today
		}
		b.ReturnDate = &today
		b.ReturnedAt = &now
		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		if wasActive {
			return s.books.SetAvailability(ctx, book.ID, true)
		}
		// another borrower may still hold the copy today
		return s.recompute(ctx, book.ID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBook(ctx, bookID)
	log.Info().
		Str("borrowing_id", id.String()).
		Str("book_id", bookID.String()).
		Msg("book returned")

	return s.Get(ctx, caller, id)
}

func (s *BorrowingService) Delete(ctx context.Context, caller shared.Caller, id uuid.UUID) error {
	if !caller.IsStaff {
		return model.ErrStaffOnlyDelete
	}

	var bookID uuid.UUID
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		bookID = b.BookID
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.recompute(ctx, b.BookID)
	})
	if err != nil {
		return err
	}

	s.invalidateBook(ctx, bookID)
	log.Info().
		Str("borrowing_id", id.String()).
		Str("staff_id", caller.UserID.String()).
		Msg("borrowing deleted")
	return nil
}

// ========================================
// HELPERS
// ========================================

func (s *BorrowingService) recompute(ctx context.Context, bookID uuid.UUID) error {
	if _, err := s.books.RecomputeAvailability(ctx, []uuid.UUID{bookID}, s.today()); err != nil {
		return fmt.Errorf("recompute availability: %w", err)
	}
	return nil
}

func (s *BorrowingService) invalidateBook(ctx context.Context, bookID uuid.UUID) {
	if err := s.cache.Delete(ctx, bookModel.CacheKey(bookID)); err != nil {
		log.Warn().Err(err).Str("book_id", bookID.String()).Msg("invalidate book cache")
	}
}

func mapBookErr(err error) error {
	if errors.Is(err, bookModel.ErrBookNotFound) {
		return model.ErrBookNotFound
	}
	return fmt.Errorf("load book: %w", err)
}

var _ ServiceInterface = (*BorrowingService)(nil)
