package worker

// Cola de descarte para trabajos de resumen que agotaron sus reintentos.
// Cada cola origen tiene su lista espejo dlq:{cola} en redis; el snapshot
// cacheado del grupo queda desactualizado hasta la próxima asignación, que
// encola un refresco nuevo.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry conserva el trabajo fallido con el motivo del descarte, para
// inspección y re-encolado manual.
type DLQEntry struct {
	ColaOrigen string          `json:"cola_origen"`
	Tipo       string          `json:"tipo"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	FallidoEn  time.Time       `json:"fallido_en"`
	Intentos   int             `json:"intentos"`
}

// SendToDLQ aparta un trabajo agotado en la lista de descarte de su cola.
func SendToDLQ(ctx context.Context, rdb *redis.Client, cola, tipo string, payload json.RawMessage, motivo string, intentos int) {
	entry := DLQEntry{
		ColaOrigen: cola,
		Tipo:       tipo,
		Payload:    payload,
		Motivo:     motivo,
		FallidoEn:  time.Now().UTC(),
		Intentos:   intentos,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo serializar la entrada")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+cola, data).Err(); err != nil {
		log.Error().Err(err).Str("cola", DLQPrefix+cola).Msg("dlq: no se pudo apartar el trabajo")
		return
	}

	log.Warn().
		Str("cola", cola).
		Str("tipo", tipo).
		Str("motivo", motivo).
		Int("intentos", intentos).
		Msg("trabajo apartado en la cola de descarte")
}

// DLQLength expone el tamaño de la lista de descarte de una cola.
func DLQLength(ctx context.Context, rdb *redis.Client, cola string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+cola).Result()
}
