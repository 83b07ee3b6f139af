package worker

// atraso_cron.go
// Background goroutine that periodically scans contas mensais for overdue
// positive balances and enqueues one collection notice per account per day.
// A Redis SETNX key dedupes notices across restarts and replicas.

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/ledger"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
)

const atrasoTickInterval = 1 * time.Hour

// AtrasoCronConfig holds all dependencies for the overdue-scan goroutine.
type AtrasoCronConfig struct {
	MensalistaRepo repository.MensalistaRepository
	Dispatcher     *Dispatcher
	RDB            *redis.Client
	Now            func() time.Time
}

// StartAtrasoCron launches a background goroutine that ticks every hour and
// enqueues cobranca jobs for overdue accounts. Respects ctx for shutdown.
func StartAtrasoCron(ctx context.Context, cfg AtrasoCronConfig) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	go func() {
		ticker := time.NewTicker(atrasoTickInterval)
		defer ticker.Stop()

		log.Info().Msg("atraso_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("atraso_cron: shutting down")
				return
			case <-ticker.C:
				scanAtrasos(ctx, cfg)
			}
		}
	}()
}

func scanAtrasos(ctx context.Context, cfg AtrasoCronConfig) {
	contas, err := cfg.MensalistaRepo.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("atraso_cron: failed to list contas")
		return
	}

	now := cfg.Now()
	enqueued := 0
	for i := range contas {
		conta := &contas[i]
		if !ledger.SaldoConta(conta).IsPositive() || !ledger.EmAtraso(conta, now) {
			continue
		}

		// One notice per conta per day, across replicas.
		dedupeKey := fmt.Sprintf("cobranca:enviada:%s:%s", conta.ID, now.Format("2006-01-02"))
		ok, err := cfg.RDB.SetNX(ctx, dedupeKey, 1, 48*time.Hour).Result()
		if err != nil {
			log.Error().Err(err).Str("conta_id", conta.ID.String()).Msg("atraso_cron: dedupe check failed")
			continue
		}
		if !ok {
			continue
		}

		payload := CobrancaJobPayload{ContaID: conta.ID.String()}
		if err := cfg.Dispatcher.Enfileirar(ctx, FilaCobranca, payload); err != nil {
			log.Error().Err(err).Str("conta_id", conta.ID.String()).Msg("atraso_cron: enqueue failed")
			// Release the dedupe key so the next tick retries.
			cfg.RDB.Del(ctx, dedupeKey)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		log.Info().Int("count", enqueued).Msg("atraso_cron: collection notices enqueued")
	}
}
