package worker

// cobranca_worker.go
// Processes collection-notice jobs from FilaCobranca: posts the overdue
// account summary to the notification gateway. The gateway call runs
// through a circuit breaker so a downed sidecar never stalls the pool,
// with exponential backoff before a job lands in the DLQ.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/infra"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/ledger"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
)

const maxCobrancaAttempts = 3

// CobrancaJobPayload is the job envelope sent to FilaCobranca.
type CobrancaJobPayload struct {
	ContaID string `json:"conta_id"`
}

// CobrancaWorker notifies mensalistas about overdue balances.
type CobrancaWorker struct {
	client         *infra.CobrancaClient
	mensalistaRepo repository.MensalistaRepository
	rdb            *redis.Client
	cb             *gobreaker.CircuitBreaker
	now            func() time.Time
}

func NewCobrancaWorker(client *infra.CobrancaClient, mensalistaRepo repository.MensalistaRepository, rdb *redis.Client) *CobrancaWorker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "cobranca-gateway",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("cobranca_worker: circuit breaker state change")
		},
	})
	return &CobrancaWorker{
		client:         client,
		mensalistaRepo: mensalistaRepo,
		rdb:            rdb,
		cb:             cb,
		now:            time.Now,
	}
}

// Process sends one collection notice, retrying with backoff. Accounts that
// settled between enqueue and processing are skipped silently.
func (w *CobrancaWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload CobrancaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("cobranca_worker: invalid payload")
		return
	}
	contaID, err := uuid.Parse(payload.ContaID)
	if err != nil {
		log.Error().Str("conta_id", payload.ContaID).Msg("cobranca_worker: invalid conta_id")
		return
	}

	conta, err := w.mensalistaRepo.FindByID(ctx, contaID)
	if err != nil {
		log.Error().Err(err).Str("conta_id", payload.ContaID).Msg("cobranca_worker: conta not found")
		return
	}

	now := w.now()
	saldo := ledger.SaldoConta(conta)
	if !saldo.IsPositive() || !ledger.EmAtraso(conta, now) {
		log.Info().Str("conta_id", payload.ContaID).Msg("cobranca_worker: conta settled, skipping notice")
		return
	}

	nome := ""
	var telefone *string
	if conta.Cliente != nil {
		nome = conta.Cliente.Nome
		telefone = conta.Cliente.Telefone
	}
	notice := infra.CobrancaPayload{
		ContaID:   conta.ID.String(),
		Cliente:   nome,
		Telefone:  telefone,
		Saldo:     saldo.StringFixed(2),
		DiasCiclo: ledger.DiasDesdeInicioCiclo(conta, now),
		Bloqueada: ledger.Bloqueada(conta, now),
	}

	sendErr := withRetry(ctx, maxCobrancaAttempts, func(attempt int) error {
		_, err := w.cb.Execute(func() (interface{}, error) {
			return w.client.Notificar(ctx, notice)
		})
		if err != nil {
			log.Warn().Err(err).
				Int("attempt", attempt+1).
				Str("conta_id", payload.ContaID).
				Msg("cobranca_worker: gateway attempt failed, retrying")
		}
		return err
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("conta_id", payload.ContaID).
			Msg("cobranca_worker: gateway failed after all retries")
		SendToDLQ(ctx, w.rdb, FilaCobranca, "cobranca", raw, sendErr.Error(), maxCobrancaAttempts)
		return
	}
	log.Info().Str("conta_id", payload.ContaID).Msg("cobranca_worker: notice delivered")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
