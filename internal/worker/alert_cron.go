package worker

// alert_cron.go
// Background goroutine that periodically flags import processes whose
// planned date already passed without completion. The flag is persisted
// (en_alerta) so the dashboard query stays a plain read.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// AlertRecalculator marks overdue processes. Satisfied by service.GrupoService.
type AlertRecalculator interface {
	RecalcularAlertas(ctx context.Context) (int64, error)
}

// StartAlertCron launches the alert sweep. It respects the context for
// graceful shutdown.
func StartAlertCron(ctx context.Context, grupos AlertRecalculator, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("alert_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alert_cron: shutting down")
				return
			case <-ticker.C:
				marcados, err := grupos.RecalcularAlertas(ctx)
				if err != nil {
					log.Error().Err(err).Msg("alert_cron: sweep failed")
					continue
				}
				if marcados > 0 {
					log.Info().Int64("procesos", marcados).Msg("alert_cron: procesos marcados en alerta")
				}
			}
		}
	}()
}
