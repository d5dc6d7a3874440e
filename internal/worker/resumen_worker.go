package worker

// resumen_worker.go
// Recomputes the consolidated group summary (quota remaining, clients per
// category, process checklist) and caches it in Redis so the dashboard
// reads never hit Postgres. The summary endpoint falls back to a direct
// recompute on cache miss, so a lost job only costs latency.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gmarm-org/gmarm-sub002/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxResumenAttempts = 3

// ResumenCacheKey is shared with the handler's read-through lookup.
func ResumenCacheKey(grupoID string) string {
	return "resumen:" + grupoID
}

// ResumenJobPayload is the job envelope sent to QueueResumen.
type ResumenJobPayload struct {
	GrupoID string `json:"grupo_id"`
}

// ResumenProvider recomputes the summary from the source of truth.
// Satisfied by service.GrupoService.
type ResumenProvider interface {
	Resumen(ctx context.Context, grupoID uuid.UUID) (*dto.ResumenGrupoResponse, error)
}

type ResumenWorker struct {
	provider ResumenProvider
	ttl      time.Duration
}

func NewResumenWorker(provider ResumenProvider, ttl time.Duration) *ResumenWorker {
	return &ResumenWorker{provider: provider, ttl: ttl}
}

func (w *ResumenWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload ResumenJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("resumen_worker: invalid payload")
		return
	}
	grupoID, err := uuid.Parse(payload.GrupoID)
	if err != nil {
		log.Error().Str("grupo_id", payload.GrupoID).Msg("resumen_worker: invalid grupo_id")
		return
	}

	var resumen *dto.ResumenGrupoResponse
	attempts := 0
	for attempts < maxResumenAttempts {
		attempts++
		resumen, err = w.provider.Resumen(ctx, grupoID)
		if err == nil {
			break
		}
		log.Warn().Err(err).Str("grupo_id", payload.GrupoID).
			Int("attempt", attempts).
			Msg("resumen_worker: recompute failed")
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempts) * time.Second):
		}
	}
	if err != nil {
		SendToDLQ(ctx, rdb, QueueResumen, "resumen", raw, err.Error(), attempts)
		return
	}

	data, err := json.Marshal(resumen)
	if err != nil {
		log.Error().Err(err).Str("grupo_id", payload.GrupoID).Msg("resumen_worker: marshal failed")
		return
	}
	if err := rdb.Set(ctx, ResumenCacheKey(payload.GrupoID), data, w.ttl).Err(); err != nil {
		log.Error().Err(err).Str("grupo_id", payload.GrupoID).Msg("resumen_worker: cache write failed")
		return
	}
	log.Debug().Str("grupo_id", payload.GrupoID).Msg("resumen_worker: cache refreshed")
}
