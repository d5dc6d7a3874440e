package service

import (
	"context"
	"errors"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"
	"github.com/Gmarm-org/gmarm-sub002/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CupoService is the quota ledger: it tracks remaining quota per
// (grupo, categoría de cliente) and (grupo, categoría de arma).
//
// Reservation and commit are the same operation — the quota only needs
// protection against overselling, not against third-party cancellation.
// The token exists purely so downstream assignment failures can compensate.
type CupoService interface {
	// Reservar atomically debits cantidad and returns a release token.
	Reservar(ctx context.Context, grupoID uuid.UUID, tipo, categoria string, cantidad int) (uuid.UUID, error)
	// ReservarSiDefinido behaves like Reservar but is a no-op (definido=false)
	// when the group never configured a quota for that (tipo, categoria).
	ReservarSiDefinido(ctx context.Context, grupoID uuid.UUID, tipo, categoria string, cantidad int) (token uuid.UUID, definido bool, err error)
	// Liberar restores the exact amount bound to the token. Idempotent: a
	// second call on the same token is a no-op.
	Liberar(ctx context.Context, token uuid.UUID) error
	// Snapshot returns remaining quota per category at a consistent point.
	Snapshot(ctx context.Context, grupoID uuid.UUID) ([]model.CupoAsignacion, error)
}

type cupoService struct {
	repo repository.CupoRepository
}

func NewCupoService(repo repository.CupoRepository) CupoService {
	return &cupoService{repo: repo}
}

func (s *cupoService) Reservar(ctx context.Context, grupoID uuid.UUID, tipo, categoria string, cantidad int) (uuid.UUID, error) {
	cupo, err := s.repo.FindPorCategoria(ctx, grupoID, tipo, categoria)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrCupoExcedido
		}
		return uuid.Nil, err
	}

	var token uuid.UUID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.DescontarRestanteTx(tx, cupo.ID, cantidad)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCupoExcedido
		}
		reserva := &model.CupoReserva{
			CupoAsignacionID: cupo.ID,
			Cantidad:         cantidad,
			Estado:           model.CupoReservaActiva,
		}
		if err := s.repo.CrearReservaTx(tx, reserva); err != nil {
			return err
		}
		token = reserva.ID
		return nil
	})
	if txErr != nil {
		return uuid.Nil, txErr
	}
	return token, nil
}

func (s *cupoService) ReservarSiDefinido(ctx context.Context, grupoID uuid.UUID, tipo, categoria string, cantidad int) (uuid.UUID, bool, error) {
	_, err := s.repo.FindPorCategoria(ctx, grupoID, tipo, categoria)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	token, err := s.Reservar(ctx, grupoID, tipo, categoria, cantidad)
	if err != nil {
		return uuid.Nil, true, err
	}
	return token, true, nil
}

func (s *cupoService) Liberar(ctx context.Context, token uuid.UUID) error {
	reserva, err := s.repo.FindReserva(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservaNoEncontrada
		}
		return err
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Only the call that wins the activa → liberada flip restores the
		// counter; retries find estado=liberada and return without touching it.
		ok, err := s.repo.MarcarReservaLiberadaTx(tx, token)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return s.repo.RestaurarRestanteTx(tx, reserva.CupoAsignacionID, reserva.Cantidad)
	})
}

func (s *cupoService) Snapshot(ctx context.Context, grupoID uuid.UUID) ([]model.CupoAsignacion, error) {
	return s.repo.ListarPorGrupo(ctx, grupoID)
}
