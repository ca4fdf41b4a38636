package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/infrastructure/storage"
	"library-backend/internal/shared"
)

// CoverDeleter is satisfied by *storage.MinIOStorage
type CoverDeleter interface {
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// DeleteCoverHandler retries cover deletions that failed during book delete
type DeleteCoverHandler struct {
	storage CoverDeleter
}

func NewDeleteCoverHandler(storage CoverDeleter) *DeleteCoverHandler {
	return &DeleteCoverHandler{storage: storage}
}

// ProcessTask xóa cover từ MinIO
func (h *DeleteCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteCoverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteCover payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	// without an object key the whole covers/<book-id>/ folder goes
	key, del := payload.ObjectKey, h.storage.Delete
	if key == "" {
		if payload.BookID == "" {
			log.Warn().Msg("DeleteCover task without book id or object key")
			return nil
		}
		key, del = storage.CoverPrefix(payload.BookID), h.storage.DeleteByPrefix
	}

	retried, _ := asynq.GetRetryCount(ctx)
	if err := del(ctx, key); err != nil {
		log.Error().
			Err(err).
			Str("book_id", payload.BookID).
			Str("object_key", key).
			Int("retry", retried).
			Msg("Failed to delete book cover")
		return fmt.Errorf("delete cover: %w", err)
	}

	log.Info().
		Str("book_id", payload.BookID).
		Str("object_key", key).
		Msg("Book cover deleted")
	return nil
}
