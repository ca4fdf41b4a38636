package main

import (
	"github.com/hibiken/asynq"

	bookJob "library-backend/internal/domains/book/job"
	borrowingJob "library-backend/internal/domains/borrowing/job"
	"library-backend/internal/shared"
	"library-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	deleteCover *bookJob.DeleteCoverHandler
	reconcile   *borrowingJob.ReconcileHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		deleteCover: bookJob.NewDeleteCoverHandler(c.Storage),
		reconcile:   borrowingJob.NewReconcileHandler(c.Reconciler),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Book covers
	mux.HandleFunc(shared.TypeDeleteBookCover, h.deleteCover.ProcessTask)

	// Maintenance
	mux.HandleFunc(shared.TypeReconcileAvailability, h.reconcile.ProcessTask)
}
