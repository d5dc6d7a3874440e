package worker

// lease_cron.go
// Returns RESERVADA serials whose soft hold expired back to DISPONIBLE.
// A vendor who reserved a serial and walked away must not keep it out of
// the pool forever.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const leaseTickInterval = time.Minute

// LeaseReleaser frees expired serial holds. Satisfied by service.SerieService.
type LeaseReleaser interface {
	LiberarLeasesVencidas(ctx context.Context, cutoff time.Time) (int, error)
}

// StartLeaseCron launches the expiry sweep. A zero lease disables it:
// reservations then hold until explicitly released.
func StartLeaseCron(ctx context.Context, series LeaseReleaser, lease time.Duration) {
	if lease <= 0 {
		log.Info().Msg("lease_cron: disabled (lease = 0)")
		return
	}
	go func() {
		ticker := time.NewTicker(leaseTickInterval)
		defer ticker.Stop()

		log.Info().Dur("lease", lease).Msg("lease_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lease_cron: shutting down")
				return
			case <-ticker.C:
				liberadas, err := series.LiberarLeasesVencidas(ctx, time.Now().Add(-lease))
				if err != nil {
					log.Error().Err(err).Msg("lease_cron: sweep failed")
					continue
				}
				if liberadas > 0 {
					log.Info().Int("series", liberadas).Msg("lease_cron: reservas vencidas liberadas")
				}
			}
		}
	}()
}
