package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"property-marketplace/internal/usecase"
)

// ExpiryWorker periodically retires premium listings past their end date.
type ExpiryWorker struct {
	interval  time.Duration
	premiumUC usecase.PremiumUseCase
	log       *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, premiumUC usecase.PremiumUseCase, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval:  interval,
		premiumUC: premiumUC,
		log:       &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.premiumUC.ExpireOverdue(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry worker error")
			}
			if n > 0 {
				w.log.Info().Int("count", n).Msg("premium listings expired")
			}
		}
	}
}
