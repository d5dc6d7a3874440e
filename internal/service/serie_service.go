package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Gmarm-org/gmarm-sub002/internal/dto"
	"github.com/Gmarm-org/gmarm-sub002/internal/model"
	"github.com/Gmarm-org/gmarm-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SerieService owns the serial pool and its per-unit state machine:
//
//	DISPONIBLE → RESERVADA → ASIGNADA → VENDIDA
//	RESERVADA/ASIGNADA → DISPONIBLE (liberación explícita)
//
// ListarDisponibles is an explicitly stale read: two vendors may see the
// same serial and race to assign it. Asignar is the atomic conflict point —
// exactly one caller wins, the loser gets ErrSerieNoDisponible and must
// re-list.
type SerieService interface {
	ListarDisponibles(ctx context.Context, armaModeloID uuid.UUID) ([]dto.SerieResponse, error)
	Reservar(ctx context.Context, numeroSerie string) error
	Asignar(ctx context.Context, numeroSerie string, reservaID uuid.UUID) error
	Liberar(ctx context.Context, numeroSerie string) error
	MarcarVendida(ctx context.Context, numeroSerie string) error
	CargaMasiva(ctx context.Context, armaModeloID uuid.UUID, filas []dto.SerieFilaRequest) (*dto.BulkUploadResponse, error)
	// LiberarLeasesVencidas returns RESERVADA serials whose lease expired
	// before cutoff to DISPONIBLE. Called by the lease cron.
	LiberarLeasesVencidas(ctx context.Context, cutoff time.Time) (int, error)
}

type serieService struct {
	repo repository.SerieRepository
}

func NewSerieService(repo repository.SerieRepository) SerieService {
	return &serieService{repo: repo}
}

func (s *serieService) ListarDisponibles(ctx context.Context, armaModeloID uuid.UUID) ([]dto.SerieResponse, error) {
	series, err := s.repo.ListarDisponibles(ctx, armaModeloID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SerieResponse, 0, len(series))
	for _, serie := range series {
		out = append(out, serieToResponse(&serie))
	}
	return out, nil
}

func (s *serieService) Reservar(ctx context.Context, numeroSerie string) error {
	ok, err := s.repo.Reservar(ctx, numeroSerie, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return s.clasificarFallo(ctx, numeroSerie)
	}
	return nil
}

func (s *serieService) Asignar(ctx context.Context, numeroSerie string, reservaID uuid.UUID) error {
	ok, err := s.repo.Asignar(ctx, numeroSerie, reservaID)
	if err != nil {
		return err
	}
	if !ok {
		return s.clasificarFallo(ctx, numeroSerie)
	}
	return nil
}

// clasificarFallo runs after a conditional update affected zero rows: the
// read here is purely diagnostic, the allocation decision already happened.
func (s *serieService) clasificarFallo(ctx context.Context, numeroSerie string) error {
	serie, err := s.repo.FindPorNumero(ctx, numeroSerie)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSerieNoEncontrada
		}
		return err
	}
	if serie.Estado == model.SerieVendida {
		return ErrSerieVendida
	}
	return ErrSerieNoDisponible
}

func (s *serieService) Liberar(ctx context.Context, numeroSerie string) error {
	ok, err := s.repo.Liberar(ctx, numeroSerie)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	serie, err := s.repo.FindPorNumero(ctx, numeroSerie)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSerieNoEncontrada
		}
		return err
	}
	if serie.Estado == model.SerieVendida {
		return ErrSerieVendida
	}
	// Ya estaba DISPONIBLE: liberación idempotente.
	return nil
}

func (s *serieService) MarcarVendida(ctx context.Context, numeroSerie string) error {
	ok, err := s.repo.MarcarVendida(ctx, numeroSerie)
	if err != nil {
		return err
	}
	if !ok {
		serie, err := s.repo.FindPorNumero(ctx, numeroSerie)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSerieNoEncontrada
			}
			return err
		}
		if serie.Estado == model.SerieVendida {
			return nil // ya vendida, marcado idempotente
		}
		return ErrSerieNoDisponible
	}
	return nil
}

// CargaMasiva loads a batch of serials. Per-row semantics: valid rows load,
// duplicates (anywhere in inventory, any state) and malformed rows are
// reported individually, and there is no global rollback.
func (s *serieService) CargaMasiva(ctx context.Context, armaModeloID uuid.UUID, filas []dto.SerieFilaRequest) (*dto.BulkUploadResponse, error) {
	resp := &dto.BulkUploadResponse{
		Duplicadas: []string{},
		Errores:    []string{},
	}
	vistas := make(map[string]bool, len(filas))

	for _, fila := range filas {
		numero := strings.TrimSpace(fila.NumeroSerie)
		if numero == "" {
			resp.Errores = append(resp.Errores, "numero de serie vacio")
			continue
		}
		if vistas[numero] {
			resp.Duplicadas = append(resp.Duplicadas, numero)
			continue
		}
		vistas[numero] = true

		serie := &model.ArmaSerie{
			NumeroSerie:  numero,
			ArmaModeloID: armaModeloID,
			Estado:       model.SerieDisponible,
			Lote:         strings.TrimSpace(fila.Lote),
			Notas:        strings.TrimSpace(fila.Notas),
		}
		if err := s.repo.Crear(ctx, serie); err != nil {
			// El índice único sobre numero_serie es quien decide la
			// duplicidad — no hay chequeo previo leer-luego-insertar.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				resp.Duplicadas = append(resp.Duplicadas, numero)
				continue
			}
			resp.Errores = append(resp.Errores, numero+": "+err.Error())
			continue
		}
		resp.Cargadas++
	}

	log.Info().
		Int("cargadas", resp.Cargadas).
		Int("duplicadas", len(resp.Duplicadas)).
		Int("errores", len(resp.Errores)).
		Str("arma_modelo_id", armaModeloID.String()).
		Msg("carga masiva de series procesada")
	return resp, nil
}

func (s *serieService) LiberarLeasesVencidas(ctx context.Context, cutoff time.Time) (int, error) {
	vencidas, err := s.repo.ListarReservadasAntesDe(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	liberadas := 0
	for _, serie := range vencidas {
		ok, err := s.repo.Liberar(ctx, serie.NumeroSerie)
		if err != nil {
			log.Error().Err(err).Str("numero_serie", serie.NumeroSerie).
				Msg("no se pudo liberar lease vencida")
			continue
		}
		if ok {
			liberadas++
		}
	}
	return liberadas, nil
}

func serieToResponse(s *model.ArmaSerie) dto.SerieResponse {
	return dto.SerieResponse{
		ID:           s.ID.String(),
		NumeroSerie:  s.NumeroSerie,
		ArmaModeloID: s.ArmaModeloID.String(),
		Estado:       s.Estado,
		Lote:         s.Lote,
	}
}
