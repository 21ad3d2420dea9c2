package worker

// Los jobs que agotan sus reintentos terminan en una lista aparte
// ("dlq:{cola}") para revisarlos a mano. Nunca se descartan en silencio:
// un PDF de factura o un email de recordatorio perdido es un reclamo seguro.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

type DLQEntry struct {
	Cola     string          `json:"cola"`
	Tipo     string          `json:"tipo"`
	Payload  json.RawMessage `json:"payload"`
	Motivo   string          `json:"motivo"`
	FallidoA time.Time       `json:"fallido_a"`
	Intentos int             `json:"intentos"`
}

// SendToDLQ aparta un job fallido. Los errores acá sólo se loguean: el pool
// ya decidió abandonar el job y no hay a quién devolvérselo.
func SendToDLQ(ctx context.Context, rdb *redis.Client, cola string, tipo string, payload json.RawMessage, motivo string, intentos int) {
	entry := DLQEntry{
		Cola:     cola,
		Tipo:     tipo,
		Payload:  payload,
		Motivo:   motivo,
		FallidoA: time.Now().UTC(),
		Intentos: intentos,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo serializar la entrada")
		return
	}

	if err := rdb.LPush(ctx, DLQPrefix+cola, data).Err(); err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo encolar")
		return
	}

	log.Warn().
		Str("cola", cola).
		Str("tipo", tipo).
		Str("motivo", motivo).
		Int("intentos", intentos).
		Msg("dlq: job apartado tras agotar reintentos")
}

// DLQLength devuelve la cantidad de jobs apartados de una cola.
func DLQLength(ctx context.Context, rdb *redis.Client, cola string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+cola).Result()
}
