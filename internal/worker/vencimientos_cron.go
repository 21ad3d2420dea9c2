package worker

// vencimientos_cron.go
// Background goroutine que barre periódicamente las facturas pendientes con
// vencimiento pasado y encola recordatorios por email. Un SETNX con TTL de
// 24h en Redis evita repetir el aviso de la misma factura en el día.

import (
	"context"
	"fmt"
	"time"

	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const notificadoTTL = 24 * time.Hour

// VencimientosCronConfig holds the dependencies for the reminder goroutine.
type VencimientosCronConfig struct {
	FacturaRepo repository.FacturaRepository
	ClienteRepo repository.ClienteRepository
	Dispatcher  *Dispatcher
	RDB         *redis.Client
	Interval    time.Duration
}

// StartVencimientosCron launches the reminder loop. It respects the context
// for graceful shutdown.
func StartVencimientosCron(ctx context.Context, cfg VencimientosCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("vencimientos_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimientos_cron: shutting down")
				return
			case <-ticker.C:
				procesarVencimientos(ctx, cfg)
			}
		}
	}()
}

func procesarVencimientos(ctx context.Context, cfg VencimientosCronConfig) {
	facturas, err := cfg.FacturaRepo.ListPendientesVencidas(ctx)
	if err != nil {
		log.Error().Err(err).Msg("vencimientos_cron: query failed")
		return
	}
	if len(facturas) == 0 {
		return
	}

	log.Info().Int("count", len(facturas)).Msg("vencimientos_cron: facturas vencidas detectadas")

	for _, f := range facturas {
		key := fmt.Sprintf("vencimiento:notificado:%s", f.ID)
		ok, err := cfg.RDB.SetNX(ctx, key, 1, notificadoTTL).Result()
		if err != nil {
			log.Error().Err(err).Str("factura_id", f.ID.String()).Msg("vencimientos_cron: setnx failed")
			continue
		}
		if !ok {
			continue // ya avisada hoy
		}

		cliente, err := cfg.ClienteRepo.FindByID(ctx, f.ClienteID)
		if err != nil || cliente.Email == nil {
			continue
		}

		job := EmailJob{
			To:      *cliente.Email,
			Subject: fmt.Sprintf("Factura Nº %08d vencida", f.Numero),
			Body: fmt.Sprintf(
				"Estimado/a %s:\n\nLa factura Nº %08d por $ %s venció el %s y figura impaga.\nPor favor regularice su situación.\n\nQuimexar Distribuciones",
				f.ClienteNombre, f.Numero, f.Total.StringFixed(2), f.Vencimiento.Format("02/01/2006"),
			),
		}
		if err := cfg.Dispatcher.EnqueueEmail(ctx, job); err != nil {
			log.Error().Err(err).Str("factura_id", f.ID.String()).Msg("vencimientos_cron: enqueue failed")
			// Libera la marca para reintentar en el próximo tick.
			_ = cfg.RDB.Del(ctx, key).Err()
		}
	}
}
