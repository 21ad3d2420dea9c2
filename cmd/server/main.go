package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris1983admin/quimexar/internal/config"
	"github.com/chris1983admin/quimexar/internal/infra"
	"github.com/chris1983admin/quimexar/internal/repository"
	"github.com/chris1983admin/quimexar/internal/router"
	"github.com/chris1983admin/quimexar/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker pool para tareas asíncronas (PDF de facturas, emails). Los
	// handlers se arman acá, en el composition root, con acceso a toda la
	// infraestructura.
	mailer := infra.NewMailer(cfg)
	smtpBreaker := infra.NewBreaker(5, time.Minute)
	dispatcher := worker.NewDispatcher(rdb)

	facturaRepo := repository.NewFacturaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)

	facturacionW := worker.NewFacturacionWorker(facturaRepo, dispatcher, cfg.PDFStoragePath)
	emailW := worker.NewEmailWorker(mailer, smtpBreaker)

	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		"facturacion": facturacionW.Process,
		"email":       emailW.Process,
	})

	// Barrido periódico de facturas vencidas para recordatorios por email.
	worker.StartVencimientosCron(ctx, worker.VencimientosCronConfig{
		FacturaRepo: facturaRepo,
		ClienteRepo: clienteRepo,
		Dispatcher:  dispatcher,
		RDB:         rdb,
		Interval:    time.Duration(cfg.VencimientosCronMin) * time.Minute,
	})

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("quimexar backend listening on :%d", cfg.Port)
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
