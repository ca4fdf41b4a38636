package queue

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/shared"
)

type Scheduler struct {
	scheduler     *asynq.Scheduler
	reconcileCron string
}

func NewScheduler(redisOpt asynq.RedisClientOpt, reconcileCron string) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:     scheduler,
		reconcileCron: reconcileCron,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerReconcileAvailabilityJob()
}

// ================================================
// Reconcile availability cache (every 30 min by default)
// ================================================
func (s *Scheduler) registerReconcileAvailabilityJob() error {
	task := asynq.NewTask(shared.TypeReconcileAvailability, nil)

	entryID, err := s.scheduler.Register(
		s.reconcileCron,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Str("cron", s.reconcileCron).Msg("Failed to register ReconcileAvailability job")
		return err
	}

	log.Info().Str("entry_id", entryID).Str("cron", s.reconcileCron).Msg("Registered ReconcileAvailability job")
	return nil
}

// Start launches the scheduler in the background
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
