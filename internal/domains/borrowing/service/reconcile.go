package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	bookModel "library-backend/internal/domains/book/model"
	bookRepo "library-backend/internal/domains/book/repository"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
)

// Reconciler recomputes the availability flag of every book from the ledger.
// Loans starting or ending with the calendar day need this to show up.
type Reconciler struct {
	books bookRepo.RepositoryInterface
	cache cache.Cache
	now   func() time.Time
}

func NewReconciler(books bookRepo.RepositoryInterface, c cache.Cache) *Reconciler {
	return &Reconciler{books: books, cache: c, now: time.Now}
}

// Run returns how many books changed
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	start := time.Now()
	changed, err := r.books.RecomputeAvailability(ctx, nil, utils.DateOnly(r.now()))
	if err != nil {
		return 0, fmt.Errorf("recompute availability: %w", err)
	}

	if len(changed) > 0 {
		keys := make([]string, 0, len(changed))
		for _, id := range changed {
			keys = append(keys, bookModel.CacheKey(id))
		}
		if err := r.cache.Delete(ctx, keys...); err != nil {
			log.Warn().Err(err).Int("count", len(keys)).Msg("invalidate reconciled books")
		}
	}

	log.Info().
		Int("changed", len(changed)).
		Dur("duration", time.Since(start)).
		Msg("availability reconciled")
	return len(changed), nil
}
