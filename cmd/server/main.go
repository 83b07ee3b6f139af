package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/config"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/infra"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/router"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Async side: worker pool for collection notices and statement emails,
	// plus the hourly overdue scan. Wired here (composition root) so the
	// pool has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cobrancaClient := infra.NewCobrancaClient(cfg.CobrancaGatewayURL)
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	mensalistaRepo := repository.NewMensalistaRepository(db)

	handlers := worker.Handlers{
		Cobranca: worker.NewCobrancaWorker(cobrancaClient, mensalistaRepo, rdb),
		Email:    worker.NewEmailWorker(mailer, mensalistaRepo, cfg.ExtratoStoragePath, cfg.NomeBar),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	worker.StartAtrasoCron(ctx, worker.AtrasoCronConfig{
		MensalistaRepo: mensalistaRepo,
		Dispatcher:     dispatcher,
		RDB:            rdb,
	})

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("bar-controller backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
