package job

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"library-backend/internal/shared"
)

type stubReconciler struct {
	changed int
	err     error
	calls   int
}

func (s *stubReconciler) Run(context.Context) (int, error) {
	s.calls++
	return s.changed, s.err
}

func TestReconcileHandler_ProcessTask(t *testing.T) {
	task := asynq.NewTask(shared.TypeReconcileAvailability, nil)

	ok := &stubReconciler{changed: 2}
	assert.NoError(t, NewReconcileHandler(ok).ProcessTask(context.Background(), task))
	assert.Equal(t, 1, ok.calls)

	boom := errors.New("db down")
	failing := &stubReconciler{err: boom}
	err := NewReconcileHandler(failing).ProcessTask(context.Background(), task)
	assert.ErrorIs(t, err, boom)
}
