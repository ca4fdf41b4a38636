package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Reconciler is satisfied by *service.Reconciler
type Reconciler interface {
	Run(ctx context.Context) (int, error)
}

// ReconcileHandler runs the scheduled availability reconciliation
type ReconcileHandler struct {
	reconciler Reconciler
}

func NewReconcileHandler(reconciler Reconciler) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler}
}

func (h *ReconcileHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	taskID, _ := asynq.GetTaskID(ctx)

	changed, err := h.reconciler.Run(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("Availability reconciliation failed")
		return fmt.Errorf("reconcile availability: %w", err)
	}

	log.Info().
		Str("task_id", taskID).
		Int("changed", changed).
		Msg("Availability reconciliation completed")
	return nil
}
