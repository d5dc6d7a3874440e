package service

import (
	"context"
	"errors"
	"time"

	"github.com/Gmarm-org/gmarm-sub002/internal/dto"
	"github.com/Gmarm-org/gmarm-sub002/internal/model"
	"github.com/Gmarm-org/gmarm-sub002/internal/repository"
	"github.com/Gmarm-org/gmarm-sub002/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AsignacionService is the coordinator: it orchestrates the group stage
// check, the quota debit, and the serial binding as a compensating
// transaction. Either everything commits (quota debited AND serial bound)
// or every partial reservation is rolled back before the call returns.
type AsignacionService interface {
	AsignarArmaCliente(ctx context.Context, req dto.AsignarArmaClienteRequest) (*dto.ReservaResponse, error)
	// FinalizarSerie attaches a concrete serial to an existing reservation
	// (the deferred-serial path of AsignarArmaCliente).
	FinalizarSerie(ctx context.Context, req dto.AsignarSerieRequest) (*dto.ReservaResponse, error)
	// LiberarAsignacion releases serial + quota + reservation. Idempotent
	// under retry.
	LiberarAsignacion(ctx context.Context, reservaID uuid.UUID) error
	QuitarClienteDeGrupo(ctx context.Context, grupoID, clienteID uuid.UUID) error
	// AnularGrupo releases every active reservation of the group and then
	// soft-cancels it, returning capacity to the license.
	AnularGrupo(ctx context.Context, grupoID uuid.UUID) error
	Obtener(ctx context.Context, reservaID uuid.UUID) (*model.ReservaClienteArma, error)
}

type asignacionService struct {
	reservaRepo repository.ReservaRepository
	serieRepo   repository.SerieRepository
	cupoRepo    repository.CupoRepository
	grupoRepo   repository.GrupoRepository
	armaRepo    repository.ArmaRepository
	clienteRepo repository.ClienteRepository
	grupos      GrupoService
	cupos       CupoService
	series      SerieService
	dispatcher  *worker.Dispatcher
}

func NewAsignacionService(
	reservaRepo repository.ReservaRepository,
	serieRepo repository.SerieRepository,
	cupoRepo repository.CupoRepository,
	grupoRepo repository.GrupoRepository,
	armaRepo repository.ArmaRepository,
	clienteRepo repository.ClienteRepository,
	grupos GrupoService,
	cupos CupoService,
	series SerieService,
	dispatcher *worker.Dispatcher,
) AsignacionService {
	return &asignacionService{
		reservaRepo: reservaRepo,
		serieRepo:   serieRepo,
		cupoRepo:    cupoRepo,
		grupoRepo:   grupoRepo,
		armaRepo:    armaRepo,
		clienteRepo: clienteRepo,
		grupos:      grupos,
		cupos:       cupos,
		series:      series,
		dispatcher:  dispatcher,
	}
}

func (s *asignacionService) AsignarArmaCliente(ctx context.Context, req dto.AsignarArmaClienteRequest) (*dto.ReservaResponse, error) {
	grupoID, err := uuid.Parse(req.GrupoID)
	if err != nil {
		return nil, err
	}
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, err
	}
	armaModeloID, err := uuid.Parse(req.ArmaModeloID)
	if err != nil {
		return nil, err
	}
	cantidad := req.Cantidad
	if cantidad < 1 {
		cantidad = 1
	}
	var usuarioID *uuid.UUID
	if req.UsuarioID != nil {
		id, err := uuid.Parse(*req.UsuarioID)
		if err != nil {
			return nil, err
		}
		usuarioID = &id
	}

	// 1. El grupo tiene que aceptar clientes nuevos — fallo rápido.
	acepta, err := s.grupos.PuedeRecibirClientes(ctx, grupoID)
	if err != nil {
		return nil, err
	}
	if !acepta {
		return nil, ErrGrupoCerrado
	}

	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	arma, err := s.armaRepo.FindByID(ctx, armaModeloID)
	if err != nil {
		return nil, err
	}

	// 2. Débito de cupo por categoría de cliente (y de arma, si el grupo
	// definió uno). Cualquier fallo posterior libera estos tokens.
	tokens := make([]uuid.UUID, 0, 2)
	compensar := func() {
		for _, token := range tokens {
			if err := s.cupos.Liberar(ctx, token); err != nil {
				log.Error().Err(err).Str("token", token.String()).
					Msg("compensacion de cupo fallo")
			}
		}
	}

	tokenCliente, err := s.cupos.Reservar(ctx, grupoID, model.CupoTipoCliente, cliente.Categoria, cantidad)
	if err != nil {
		return nil, err
	}
	tokens = append(tokens, tokenCliente)

	tokenArma, definido, err := s.cupos.ReservarSiDefinido(ctx, grupoID, model.CupoTipoArma, arma.Categoria, cantidad)
	if err != nil {
		compensar()
		return nil, err
	}
	if definido {
		tokens = append(tokens, tokenArma)
	}

	// 3. Serie concreta, si el vendedor ya eligió una. El ID de la reserva
	// se genera antes para poder atarla en el mismo UPDATE condicional.
	reservaID := uuid.New()
	serieAsignada := false
	var armaSerieID *uuid.UUID
	if req.NumeroSerie != "" {
		if err := s.series.Asignar(ctx, req.NumeroSerie, reservaID); err != nil {
			compensar()
			if errors.Is(err, ErrSerieNoDisponible) {
				// Perdió la carrera: el cupo ya fue devuelto, el llamador
				// re-lista series frescas y reintenta.
				return nil, ErrConflictoSerie
			}
			return nil, err
		}
		serieAsignada = true

		serie, err := s.serieRepo.FindPorNumero(ctx, req.NumeroSerie)
		if err != nil {
			s.compensarSerie(ctx, req.NumeroSerie)
			compensar()
			return nil, err
		}
		armaSerieID = &serie.ID
	}

	// 4. Persistir la reserva recién cuando ambas sub-reservas están firmes.
	// El vínculo con la serie viaja en el mismo INSERT: nunca queda una
	// reserva confirmada apuntando a ninguna serie mientras la serie sí
	// apunta a la reserva.
	reserva := model.ReservaClienteArma{
		ID:           reservaID,
		GrupoID:      grupoID,
		ClienteID:    clienteID,
		ArmaModeloID: armaModeloID,
		ArmaSerieID:  armaSerieID,
		Precio:       req.Precio,
		Cantidad:     cantidad,
		Estado:       model.ReservaActiva,
		AsignadaPor:  usuarioID,
	}
	txErr := runTx(ctx, s.reservaRepo.DB(), func(tx *gorm.DB) error {
		if err := s.reservaRepo.CrearTx(tx, &reserva); err != nil {
			return err
		}
		return s.cupoRepo.VincularReservasTx(tx, tokens, reservaID)
	})
	if txErr != nil {
		if serieAsignada {
			s.compensarSerie(ctx, req.NumeroSerie)
		}
		compensar()
		return nil, txErr
	}

	s.refrescarResumen(ctx, grupoID)
	log.Info().Str("reserva_id", reservaID.String()).
		Str("grupo_id", grupoID.String()).
		Str("cliente_id", clienteID.String()).
		Bool("con_serie", serieAsignada).
		Msg("arma asignada a cliente")
	return s.reservaToResponse(ctx, &reserva), nil
}

func (s *asignacionService) FinalizarSerie(ctx context.Context, req dto.AsignarSerieRequest) (*dto.ReservaResponse, error) {
	reservaID, err := uuid.Parse(req.ClienteArmaID)
	if err != nil {
		return nil, err
	}
	usuarioID, err := uuid.Parse(req.UsuarioAsignadorID)
	if err != nil {
		return nil, err
	}

	reserva, err := s.reservaRepo.FindByID(ctx, reservaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservaNoEncontrada
		}
		return nil, err
	}
	if reserva.Estado != model.ReservaActiva {
		return nil, ErrReservaNoEncontrada
	}

	if err := s.series.Asignar(ctx, req.NumeroSerie, reservaID); err != nil {
		if errors.Is(err, ErrSerieNoDisponible) {
			return nil, ErrConflictoSerie
		}
		return nil, err
	}

	serie, err := s.serieRepo.FindPorNumero(ctx, req.NumeroSerie)
	if err != nil {
		return nil, err
	}
	txErr := runTx(ctx, s.reservaRepo.DB(), func(tx *gorm.DB) error {
		return s.reservaRepo.ActualizarSerieTx(tx, reservaID, serie.ID, &usuarioID)
	})
	if txErr != nil {
		// La serie quedó tomada pero la reserva no la registró: devolverla.
		s.compensarSerie(ctx, req.NumeroSerie)
		return nil, txErr
	}

	reserva.ArmaSerieID = &serie.ID
	reserva.AsignadaPor = &usuarioID
	s.refrescarResumen(ctx, reserva.GrupoID)
	return s.reservaToResponse(ctx, reserva), nil
}

func (s *asignacionService) LiberarAsignacion(ctx context.Context, reservaID uuid.UUID) error {
	reserva, err := s.reservaRepo.FindByID(ctx, reservaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservaNoEncontrada
		}
		return err
	}

	if reserva.Estado != model.ReservaActiva {
		// La marca liberada se escribe al final, cuando serie y cupos ya
		// volvieron: encontrarla implica que la liberación anterior completó.
		return nil
	}

	// Serie de vuelta al pool primero. Liberar es idempotente por sí mismo,
	// así un reintento tras fallo parcial la repite sin efecto.
	if serie, err := s.serieRepo.FindPorReserva(ctx, reservaID); err == nil {
		if err := s.series.Liberar(ctx, serie.NumeroSerie); err != nil && !errors.Is(err, ErrSerieVendida) {
			return err
		}
	}

	// Tokens de cupo de vuelta al libro, cada uno con su propia marca
	// activa → liberada que impide restaurar dos veces.
	tokens, err := s.cupoRepo.ListarReservasPorVinculo(ctx, reservaID)
	if err != nil {
		return err
	}
	for _, token := range tokens {
		if err := s.cupos.Liberar(ctx, token.ID); err != nil {
			return err
		}
	}

	// Recién ahora la reserva deja de estar activa. Si dos liberaciones
	// corren a la vez ambas repiten trabajo idempotente y una gana el flip.
	txErr := runTx(ctx, s.reservaRepo.DB(), func(tx *gorm.DB) error {
		_, err := s.reservaRepo.MarcarLiberadaTx(tx, reservaID)
		return err
	})
	if txErr != nil {
		return txErr
	}

	s.refrescarResumen(ctx, reserva.GrupoID)
	log.Info().Str("reserva_id", reservaID.String()).Msg("asignacion liberada")
	return nil
}

func (s *asignacionService) QuitarClienteDeGrupo(ctx context.Context, grupoID, clienteID uuid.UUID) error {
	reservas, err := s.reservaRepo.ListarActivasPorCliente(ctx, grupoID, clienteID)
	if err != nil {
		return err
	}
	for _, reserva := range reservas {
		if err := s.LiberarAsignacion(ctx, reserva.ID); err != nil {
			return err
		}
	}
	return runTx(ctx, s.reservaRepo.DB(), func(tx *gorm.DB) error {
		return s.grupoRepo.QuitarClienteTx(tx, grupoID, clienteID)
	})
}

func (s *asignacionService) AnularGrupo(ctx context.Context, grupoID uuid.UUID) error {
	reservas, err := s.reservaRepo.ListarActivasPorGrupo(ctx, grupoID)
	if err != nil {
		return err
	}
	for _, reserva := range reservas {
		if err := s.LiberarAsignacion(ctx, reserva.ID); err != nil {
			return err
		}
	}
	return s.grupos.Anular(ctx, grupoID)
}

func (s *asignacionService) Obtener(ctx context.Context, reservaID uuid.UUID) (*model.ReservaClienteArma, error) {
	reserva, err := s.reservaRepo.FindByID(ctx, reservaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservaNoEncontrada
		}
		return nil, err
	}
	return reserva, nil
}

// compensarSerie devuelve al pool una serie tomada por un intento que
// falló después del UPDATE condicional.
func (s *asignacionService) compensarSerie(ctx context.Context, numeroSerie string) {
	if err := s.series.Liberar(ctx, numeroSerie); err != nil {
		log.Error().Err(err).Str("numero_serie", numeroSerie).
			Msg("compensacion de serie fallo")
	}
}

// refrescarResumen enqueues the cache refresh; best effort, fire & forget.
func (s *asignacionService) refrescarResumen(ctx context.Context, grupoID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueResumen(ctx, grupoID.String())
}

func (s *asignacionService) reservaToResponse(ctx context.Context, r *model.ReservaClienteArma) *dto.ReservaResponse {
	resp := &dto.ReservaResponse{
		ID:           r.ID.String(),
		GrupoID:      r.GrupoID.String(),
		ClienteID:    r.ClienteID.String(),
		ArmaModeloID: r.ArmaModeloID.String(),
		Precio:       r.Precio,
		Cantidad:     r.Cantidad,
		Estado:       r.Estado,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	if r.ArmaSerie != nil {
		resp.NumeroSerie = r.ArmaSerie.NumeroSerie
	} else if r.ArmaSerieID != nil {
		if serie, err := s.serieRepo.FindPorReserva(ctx, r.ID); err == nil {
			resp.NumeroSerie = serie.NumeroSerie
		}
	}
	return resp
}
