package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"eco_hotels/internal/adapters/observability"
	"eco_hotels/internal/bootstrap"
	"eco_hotels/internal/scheduler"
	"eco_hotels/internal/shared"
)

// ingestor performs a single ingestion run outside the schedule and exits.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Str("job", cfg.JobID).
		Str("provider", cfg.LLMProvider).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	a, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	// same lock and recovery as a scheduled firing
	res, err := a.Scheduler.Trigger(ctx, cfg.JobID)
	a.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("trigger failed")
	}

	log.Info().Str("result", res).Msg("ingestion completed")
	if res == scheduler.ResultError || res == scheduler.ResultPanic {
		os.Exit(1)
	}
}
