package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/shared"
	"library-backend/internal/testutil/memstore"
)

func newTask(t *testing.T, payload shared.DeleteCoverPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeDeleteBookCover, data)
}

func TestDeleteCoverHandler(t *testing.T) {
	ctx := context.Background()
	objects := memstore.NewObjects()
	_, err := objects.Upload(ctx, "covers/b1/cover.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)

	h := NewDeleteCoverHandler(objects)

	objects.FailDeletes = true
	err = h.ProcessTask(ctx, newTask(t, shared.DeleteCoverPayload{BookID: "b1", ObjectKey: "covers/b1/cover.jpg"}))
	assert.ErrorIs(t, err, memstore.ErrStorageDown)
	assert.True(t, objects.Has("covers/b1/cover.jpg"))

	objects.FailDeletes = false
	err = h.ProcessTask(ctx, newTask(t, shared.DeleteCoverPayload{BookID: "b1", ObjectKey: "covers/b1/cover.jpg"}))
	require.NoError(t, err)
	assert.False(t, objects.Has("covers/b1/cover.jpg"))
}

func TestDeleteCoverHandler_PrefixWhenKeyMissing(t *testing.T) {
	ctx := context.Background()
	objects := memstore.NewObjects()
	for _, key := range []string{"covers/b2/cover.jpg", "covers/b2/original.png", "covers/b3/cover.jpg"} {
		_, err := objects.Upload(ctx, key, []byte("x"), "image/jpeg")
		require.NoError(t, err)
	}

	h := NewDeleteCoverHandler(objects)
	require.NoError(t, h.ProcessTask(ctx, newTask(t, shared.DeleteCoverPayload{BookID: "b2"})))

	assert.False(t, objects.Has("covers/b2/cover.jpg"))
	assert.False(t, objects.Has("covers/b2/original.png"))
	assert.True(t, objects.Has("covers/b3/cover.jpg"))

	assert.NoError(t, h.ProcessTask(ctx, newTask(t, shared.DeleteCoverPayload{})))
}

func TestDeleteCoverHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewDeleteCoverHandler(memstore.NewObjects())

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeDeleteBookCover, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
