package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
)

// workerConfig is the subset of application config the worker needs
type workerConfig struct {
	RedisOpt      asynq.RedisClientOpt
	Concurrency   int
	ReconcileCron string
	HealthPort    string
}

func loadWorkerConfig(cfg *config.Config) *workerConfig {
	wc := &workerConfig{
		RedisOpt: asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		Concurrency:   cfg.Worker.Concurrency,
		ReconcileCron: cfg.Worker.ReconcileCron,
		HealthPort:    cfg.Worker.HealthPort,
	}

	log.Info().
		Str("redis", wc.RedisOpt.Addr).
		Int("concurrency", wc.Concurrency).
		Str("reconcile_cron", wc.ReconcileCron).
		Msg("[Config] Worker configuration loaded")

	return wc
}
