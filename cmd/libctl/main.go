// libctl is the operator CLI: staff bootstrap and maintenance jobs.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"library-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("libctl failed")
		os.Exit(1)
	}
}
