package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/shared"
)

// Client wraps asynq.Client with typed enqueue helpers
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, password string, db int) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr, Password: password, DB: db}),
	}
}

// EnqueueDeleteCover schedules a retryable cover cleanup
func (c *Client) EnqueueDeleteCover(ctx context.Context, payload shared.DeleteCoverPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeDeleteBookCover, data)
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeDeleteBookCover, err)
	}

	log.Info().
		Str("task_id", info.ID).
		Str("book_id", payload.BookID).
		Msg("Cover cleanup task enqueued")
	return nil
}

// EnqueueReconcile runs availability reconciliation out of schedule
func (c *Client) EnqueueReconcile(ctx context.Context) error {
	task := asynq.NewTask(shared.TypeReconcileAvailability, nil)
	_, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(1),
		asynq.Unique(5*time.Minute),
	)
	if err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		return fmt.Errorf("enqueue %s: %w", shared.TypeReconcileAvailability, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
