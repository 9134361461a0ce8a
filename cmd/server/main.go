package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gestoreventos/internal/config"
	"gestoreventos/internal/infra"
	"gestoreventos/internal/middleware"
	"gestoreventos/internal/repository"
	"gestoreventos/internal/router"
	"gestoreventos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalogoCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("catalogo"))
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))

	catalogo := infra.NewCatalogoClient(
		cfg.CatalogoURL,
		time.Duration(cfg.CatalogoTimeoutSeconds)*time.Second,
		time.Duration(cfg.PlantillaCacheTTLMinutes)*time.Minute,
		rdb,
		catalogoCB,
	)
	mailer := infra.NewMailer(cfg, smtpCB)

	// Notification consumers are wired here so the pool reaches every
	// dependency it needs (repositories, mailer, PDF storage).
	worker.StartWorkerPool(ctx, worker.PoolConfig{
		RDB:        rdb,
		Workers:    cfg.WorkerPoolSize,
		MaxRetries: cfg.NotifyMaxRetries,
		Notificaciones: worker.NewNotificacionWorker(
			repository.NewEventoRepository(db),
			repository.NewPagoRepository(db),
			mailer,
			cfg.BusinessName,
			cfg.PDFStoragePath,
		),
	})
	worker.StartRetryCron(ctx, worker.RetryCronConfig{RDB: rdb, CB: smtpCB})

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limiter.StartPurge(ctx, 5*time.Minute)

	r := router.New(cfg, db, rdb, router.Deps{
		Catalogo:    catalogo,
		Mailer:      mailer,
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("gestoreventos listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
