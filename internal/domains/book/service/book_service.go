package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/infrastructure/storage"
	"library-backend/internal/shared"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
)

// BookService - Implements ServiceInterface
type BookService struct {
	repo       repository.RepositoryInterface
	borrowings BorrowingReader
	covers     CoverStorage
	images     CoverProcessor
	tasks      TaskEnqueuer
	cache      cache.Cache
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewService - Constructor with DI
func NewService(
	repo repository.RepositoryInterface,
	borrowings BorrowingReader,
	covers CoverStorage,
	images CoverProcessor,
	tasks TaskEnqueuer,
	cache cache.Cache,
	cacheTTL time.Duration,
) *BookService {
	return &BookService{
		repo:       repo,
		borrowings: borrowings,
		covers:     covers,
		images:     images,
		tasks:      tasks,
		cache:      cache,
		cacheTTL:   cacheTTL,
		now:        time.Now,
	}
}

var _ ServiceInterface = (*BookService)(nil)

// ========================================
// READ
// ========================================

func (s *BookService) ListBooks(ctx context.Context, caller shared.Caller, req model.ListBooksRequest) ([]model.BookView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	books, err := s.repo.ListBooks(ctx, req.ToFilter(!caller.IsStaff))
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return s.views(ctx, caller, books)
}

// views builds role-scoped views. Current borrowers are only resolved for staff.
func (s *BookService) views(ctx context.Context, caller shared.Caller, books []*model.Book) ([]model.BookView, error) {
	var borrowers map[uuid.UUID]string
	if caller.IsStaff && len(books) > 0 {
		ids := make([]uuid.UUID, len(books))
		for i, b := range books {
			ids[i] = b.ID
		}
		var err error
		borrowers, err = s.borrowings.CurrentBorrowers(ctx, ids, utils.DateOnly(s.now()))
		if err != nil {
			return nil, fmt.Errorf("current borrowers: %w", err)
		}
	}

	views := make([]model.BookView, 0, len(books))
	for _, b := range books {
		views = append(views, model.ViewFor(caller, b, s.coverURL(b), borrowers[b.ID], b.Availability))
	}
	return views, nil
}

func (s *BookService) view(ctx context.Context, caller shared.Caller, b *model.Book) (model.BookView, error) {
	views, err := s.views(ctx, caller, []*model.Book{b})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *BookService) coverURL(b *model.Book) string {
	if b.CoverKey == nil {
		return ""
	}
	return s.covers.ObjectURL(*b.CoverKey)
}

func (s *BookService) GetBook(ctx context.Context, caller shared.Caller, id uuid.UUID) (model.BookView, error) {
	b, err := s.getBook(ctx, id)
	if err != nil {
		return nil, err
	}
	// non-staff chỉ thấy sách còn sẵn, giống listing
	if !caller.IsStaff && !b.Availability {
		return nil, model.ErrBookNotFound
	}
	return s.view(ctx, caller, b)
}

// getBook is cache-aside over the book entity
func (s *BookService) getBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	key := model.CacheKey(id)

	var cached model.Book
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("book cache read failed")
	}
	if found {
		return &cached, nil
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("book cache write failed")
	}
	return b, nil
}

// ========================================
// WRITE
// ========================================

func (s *BookService) CreateBook(ctx context.Context, caller shared.Caller, req model.CreateBookRequest) (model.BookView, error) {
	if !caller.IsStaff {
		return nil, model.ErrCreateStaffOnly
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.ISBN = strings.TrimSpace(req.ISBN)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.ExistingISBNs(ctx, []string{req.ISBN})
	if err != nil {
		return nil, fmt.Errorf("check isbn: %w", err)
	}
	if existing[req.ISBN] {
		return nil, model.ErrISBNAlreadyExists
	}

	b := &model.Book{
		ID:           uuid.New(),
		Title:        req.Title,
		Author:       req.Author,
		ISBN:         req.ISBN,
		Availability: true,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Info().
		Str("book_id", b.ID.String()).
		Str("isbn", b.ISBN).
		Str("staff_id", caller.UserID.String()).
		Msg("book created")

	return s.view(ctx, caller, b)
}

func (s *BookService) UpdateBook(ctx context.Context, caller shared.Caller, id uuid.UUID, req model.UpdateBookRequest) (model.BookView, error) {
	if !caller.IsStaff {
		return nil, model.ErrStaffOnly
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(b)

	taken, err := s.repo.ISBNExistsExcept(ctx, b.ISBN, b.ID)
	if err != nil {
		return nil, fmt.Errorf("check isbn: %w", err)
	}
	if taken {
		return nil, model.ErrISBNAlreadyExists
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	return s.view(ctx, caller, b)
}

func (s *BookService) DeleteBook(ctx context.Context, caller shared.Caller, id uuid.UUID) (*model.DeleteBookResponse, error) {
	if !caller.IsStaff {
		return nil, model.ErrStaffOnly
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	if b.CoverKey != nil {
		s.deleteCover(ctx, id, *b.CoverKey)
	}

	log.Info().
		Str("book_id", id.String()).
		Str("staff_id", caller.UserID.String()).
		Msg("book deleted")

	return &model.DeleteBookResponse{ID: id.String(), DeletedAt: s.now()}, nil
}

// deleteCover never fails the caller; a failed delete is retried by the worker
func (s *BookService) deleteCover(ctx context.Context, bookID uuid.UUID, key string) {
	err := s.covers.Delete(ctx, key)
	if err == nil {
		return
	}

	log.Warn().
		Err(err).
		Str("book_id", bookID.String()).
		Str("object_key", key).
		Msg("cover delete failed, scheduling retry")

	payload := shared.DeleteCoverPayload{BookID: bookID.String(), ObjectKey: key}
	if err := s.tasks.EnqueueDeleteCover(ctx, payload); err != nil {
		log.Error().
			Err(err).
			Str("book_id", bookID.String()).
			Str("object_key", key).
			Msg("enqueue cover delete failed")
	}
}

func (s *BookService) UploadCover(ctx context.Context, caller shared.Caller, id uuid.UUID, data []byte) (model.BookView, error) {
	if !caller.IsStaff {
		return nil, model.ErrStaffOnly
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized, err := s.images.NormalizeCover(data)
	if err != nil {
		return nil, model.ErrInvalidCover.Wrap(err)
	}

	key := storage.CoverKey(id.String())
	if _, err := s.covers.Upload(ctx, key, normalized, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("upload cover: %w", err)
	}
	if err := s.repo.UpdateCover(ctx, id, &key); err != nil {
		return nil, err
	}
	b.CoverKey = &key
	s.invalidate(ctx, id)

	return s.view(ctx, caller, b)
}

func (s *BookService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, model.CacheKey(id)); err != nil {
		log.Warn().Err(err).Str("book_id", id.String()).Msg("invalidate book cache")
	}
}
