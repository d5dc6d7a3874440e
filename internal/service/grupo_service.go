package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gmarm-org/gmarm-sub002/internal/dto"
	"github.com/Gmarm-org/gmarm-sub002/internal/infra"
	"github.com/Gmarm-org/gmarm-sub002/internal/model"
	"github.com/Gmarm-org/gmarm-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const lockTTL = 10 * time.Second

// GrupoService owns the import-group stage machine and enforces which
// actions are legal at which stage. Every transition of one group runs
// under a per-group lock, and the UPDATE itself is conditional on the
// expected current stage, so the graph can never be violated by a race.
type GrupoService interface {
	Crear(ctx context.Context, req dto.CrearGrupoRequest) (*dto.GrupoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.GrupoResponse, error)
	Listar(ctx context.Context) ([]dto.GrupoResponse, error)

	// PuedeRecibirClientes: sólo EN_PREPARACION y EN_PROCESO_ASIGNACION_CLIENTES.
	PuedeRecibirClientes(ctx context.Context, id uuid.UUID) (bool, error)
	// PuedeCargarSeries: recién desde SOLICITAR_PROFORMA_FABRICA (pedido definido).
	PuedeCargarSeries(ctx context.Context, id uuid.UUID) (bool, error)

	Avanzar(ctx context.Context, id uuid.UUID, estadoDestino string, usuarioID *uuid.UUID) error
	// Anular is the administrative override: soft-cancels the group and
	// restores its capacity to the license. Reservation cleanup is the
	// coordinator's responsibility (see AsignacionService.AnularGrupo).
	Anular(ctx context.Context, id uuid.UUID) error

	AgregarCliente(ctx context.Context, grupoID, clienteID uuid.UUID) error

	ActualizarProcesos(ctx context.Context, grupoID uuid.UUID, req dto.ActualizarProcesosRequest) error
	ActualizarDocumentos(ctx context.Context, grupoID uuid.UUID, req dto.ActualizarDocumentosRequest) error
	// RecalcularAlertas marca en alerta los procesos con fecha planificada
	// vencida sin completar. Lo dispara el cron de alertas.
	RecalcularAlertas(ctx context.Context) (int64, error)

	Resumen(ctx context.Context, grupoID uuid.UUID) (*dto.ResumenGrupoResponse, error)
}

type grupoService struct {
	repo         repository.GrupoRepository
	licenciaRepo repository.LicenciaRepository
	cupoRepo     repository.CupoRepository
	procesoRepo  repository.ProcesoRepository
	clienteRepo  repository.ClienteRepository
	locker       infra.Locker
}

func NewGrupoService(
	repo repository.GrupoRepository,
	licenciaRepo repository.LicenciaRepository,
	cupoRepo repository.CupoRepository,
	procesoRepo repository.ProcesoRepository,
	clienteRepo repository.ClienteRepository,
	locker infra.Locker,
) GrupoService {
	return &grupoService{
		repo:         repo,
		licenciaRepo: licenciaRepo,
		cupoRepo:     cupoRepo,
		procesoRepo:  procesoRepo,
		clienteRepo:  clienteRepo,
		locker:       locker,
	}
}

// lockGrupo serializes stage work per group. A nil locker (unit tests)
// degrades to no locking — the conditional UPDATE still protects the graph.
func (s *grupoService) lockGrupo(ctx context.Context, id uuid.UUID) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	return s.locker.Obtain(ctx, "grupo:"+id.String(), lockTTL)
}

// Crear arma el grupo a partir de una licencia: debita la capacidad
// disponible de la licencia por categoría y la copia como cupos del grupo.
func (s *grupoService) Crear(ctx context.Context, req dto.CrearGrupoRequest) (*dto.GrupoResponse, error) {
	licenciaID, err := uuid.Parse(req.LicenciaID)
	if err != nil {
		return nil, fmt.Errorf("licencia_id invalido: %w", err)
	}
	licencia, err := s.licenciaRepo.FindByID(ctx, licenciaID)
	if err != nil {
		return nil, fmt.Errorf("licencia no encontrada: %w", err)
	}
	if !licencia.Activa {
		return nil, ErrLicenciaSinCupo
	}

	var grupo model.GrupoImportacion
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		grupo = model.GrupoImportacion{
			Codigo:     req.Codigo,
			LicenciaID: licencia.ID,
			Estado:     model.EstadoEnPreparacion,
		}
		if err := s.repo.CrearTx(tx, &grupo); err != nil {
			return err
		}

		// Cupos por categoría de cliente, copiados de la licencia. El débito
		// es condicional: si otro grupo ya consumió la capacidad, falla.
		for _, categoria := range model.CategoriasCliente {
			capacidad := licencia.Capacidad(categoria)
			if capacidad == 0 {
				continue
			}
			ok, err := s.licenciaRepo.DebitarDisponibleTx(tx, licencia.ID, categoria, capacidad)
			if err != nil {
				return err
			}
			if !ok {
				return ErrLicenciaSinCupo
			}
			cupo := &model.CupoAsignacion{
				GrupoID:   grupo.ID,
				Tipo:      model.CupoTipoCliente,
				Categoria: categoria,
				Capacidad: capacidad,
				Restante:  capacidad,
			}
			if err := s.cupoRepo.CrearTx(tx, cupo); err != nil {
				return err
			}
		}

		// Cupos por categoría de arma, opcionales.
		for categoria, capacidad := range req.CuposArma {
			if capacidad <= 0 {
				continue
			}
			cupo := &model.CupoAsignacion{
				GrupoID:   grupo.ID,
				Tipo:      model.CupoTipoArma,
				Categoria: categoria,
				Capacidad: capacidad,
				Restante:  capacidad,
			}
			if err := s.cupoRepo.CrearTx(tx, cupo); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("grupo_id", grupo.ID.String()).Str("codigo", grupo.Codigo).
		Msg("grupo de importacion creado")
	return grupoToResponse(&grupo), nil
}

func (s *grupoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.GrupoResponse, error) {
	grupo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return grupoToResponse(grupo), nil
}

func (s *grupoService) Listar(ctx context.Context) ([]dto.GrupoResponse, error) {
	grupos, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GrupoResponse, 0, len(grupos))
	for _, g := range grupos {
		out = append(out, *grupoToResponse(&g))
	}
	return out, nil
}

func (s *grupoService) PuedeRecibirClientes(ctx context.Context, id uuid.UUID) (bool, error) {
	grupo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if grupo.Anulado {
		return false, nil
	}
	return grupo.Estado == model.EstadoEnPreparacion ||
		grupo.Estado == model.EstadoEnProcesoAsignacion, nil
}

func (s *grupoService) PuedeCargarSeries(ctx context.Context, id uuid.UUID) (bool, error) {
	grupo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if grupo.Anulado {
		return false, nil
	}
	return IndiceEstadoDesde(grupo.Estado, model.EstadoSolicitarProformaFabrica), nil
}

// IndiceEstadoDesde reports whether estado is at or past the umbral stage.
func IndiceEstadoDesde(estado, umbral string) bool {
	i, j := model.IndiceEstado(estado), model.IndiceEstado(umbral)
	return i >= 0 && j >= 0 && i >= j
}

func (s *grupoService) Avanzar(ctx context.Context, id uuid.UUID, estadoDestino string, usuarioID *uuid.UUID) error {
	unlock, err := s.lockGrupo(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	grupo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if grupo.Anulado {
		return ErrGrupoAnulado
	}

	actual := model.IndiceEstado(grupo.Estado)
	destino := model.IndiceEstado(estadoDestino)
	if destino < 0 || destino != actual+1 {
		return fmt.Errorf("%w: %s → %s", ErrTransicionInvalida, grupo.Estado, estadoDestino)
	}

	// Precondición específica: no se notifica al agente aduanero con
	// documentos obligatorios sin aprobar.
	if estadoDestino == model.EstadoNotificarAgenteAduanero {
		pendientes, err := s.procesoRepo.ContarObligatoriosPendientes(ctx, id)
		if err != nil {
			return err
		}
		if pendientes > 0 {
			return fmt.Errorf("%w: %d documentos obligatorios pendientes", ErrTransicionInvalida, pendientes)
		}
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.ActualizarEstadoTx(tx, id, grupo.Estado, estadoDestino)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTransicionInvalida
		}
		hist := &model.HistorialEstadoGrupo{
			GrupoID:        id,
			EstadoAnterior: grupo.Estado,
			EstadoNuevo:    estadoDestino,
			UsuarioID:      usuarioID,
		}
		if err := s.repo.CrearHistorialTx(tx, hist); err != nil {
			return err
		}
		log.Info().Str("grupo_id", id.String()).
			Str("desde", grupo.Estado).Str("hacia", estadoDestino).
			Msg("grupo avanzo de etapa")
		return nil
	})
}

func (s *grupoService) Anular(ctx context.Context, id uuid.UUID) error {
	unlock, err := s.lockGrupo(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	grupo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if grupo.Anulado {
		return nil // anulación idempotente
	}

	cupos, err := s.cupoRepo.ListarPorGrupo(ctx, id)
	if err != nil {
		return err
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.AnularTx(tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		// La capacidad vuelve a la licencia para que otro grupo la use.
		for _, cupo := range cupos {
			if cupo.Tipo != model.CupoTipoCliente {
				continue
			}
			if err := s.licenciaRepo.RestaurarDisponibleTx(tx, grupo.LicenciaID, cupo.Categoria, cupo.Capacidad); err != nil {
				return err
			}
		}
		hist := &model.HistorialEstadoGrupo{
			GrupoID:        id,
			EstadoAnterior: grupo.Estado,
			EstadoNuevo:    "ANULADO",
		}
		return s.repo.CrearHistorialTx(tx, hist)
	})
}

func (s *grupoService) AgregarCliente(ctx context.Context, grupoID, clienteID uuid.UUID) error {
	acepta, err := s.PuedeRecibirClientes(ctx, grupoID)
	if err != nil {
		return err
	}
	if !acepta {
		return ErrGrupoCerrado
	}
	if _, err := s.clienteRepo.FindByID(ctx, clienteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cliente %s no encontrado", clienteID)
		}
		return err
	}
	return s.repo.AgregarCliente(ctx, &model.GrupoCliente{
		GrupoID:   grupoID,
		ClienteID: clienteID,
	})
}

func (s *grupoService) ActualizarProcesos(ctx context.Context, grupoID uuid.UUID, req dto.ActualizarProcesosRequest) error {
	if _, err := s.repo.FindByID(ctx, grupoID); err != nil {
		return err
	}
	ahora := time.Now()
	for _, item := range req.Procesos {
		enAlerta := !item.Completado &&
			item.FechaPlanificada != nil && item.FechaPlanificada.Before(ahora)
		p := &model.ProcesoImportacion{
			GrupoID:          grupoID,
			Nombre:           item.Nombre,
			FechaPlanificada: item.FechaPlanificada,
			Completado:       item.Completado,
			EnAlerta:         enAlerta,
		}
		if err := s.procesoRepo.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *grupoService) ActualizarDocumentos(ctx context.Context, grupoID uuid.UUID, req dto.ActualizarDocumentosRequest) error {
	if _, err := s.repo.FindByID(ctx, grupoID); err != nil {
		return err
	}
	for _, item := range req.Documentos {
		d := &model.DocumentoGrupo{
			GrupoID:     grupoID,
			Tipo:        item.Tipo,
			Obligatorio: item.Obligatorio,
			Estado:      item.Estado,
		}
		if err := s.procesoRepo.UpsertDocumento(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *grupoService) RecalcularAlertas(ctx context.Context) (int64, error) {
	return s.procesoRepo.MarcarAlertas(ctx, time.Now())
}

// Resumen builds the point-in-time snapshot the UI polls: quota remaining
// per category plus client counts and the milestone checklist.
func (s *grupoService) Resumen(ctx context.Context, grupoID uuid.UUID) (*dto.ResumenGrupoResponse, error) {
	grupo, err := s.repo.FindByID(ctx, grupoID)
	if err != nil {
		return nil, err
	}
	cupos, err := s.cupoRepo.ListarPorGrupo(ctx, grupoID)
	if err != nil {
		return nil, err
	}
	clientes, err := s.repo.ContarClientesPorCategoria(ctx, grupoID)
	if err != nil {
		return nil, err
	}
	procesos, err := s.procesoRepo.ListarPorGrupo(ctx, grupoID)
	if err != nil {
		return nil, err
	}

	resumen := &dto.ResumenGrupoResponse{
		GrupoID:    grupo.ID.String(),
		Codigo:     grupo.Codigo,
		Estado:     grupo.Estado,
		Clientes:   clientes,
		GeneradoEn: time.Now().UTC(),
	}
	for _, cupo := range cupos {
		resumen.Cupos = append(resumen.Cupos, dto.ResumenCupoItem{
			Tipo:      cupo.Tipo,
			Categoria: cupo.Categoria,
			Capacidad: cupo.Capacidad,
			Restante:  cupo.Restante,
		})
	}
	for _, p := range procesos {
		resumen.Procesos = append(resumen.Procesos, dto.ProcesoImportacionItem{
			Nombre:           p.Nombre,
			FechaPlanificada: p.FechaPlanificada,
			Completado:       p.Completado,
			EnAlerta:         p.EnAlerta,
		})
	}
	return resumen, nil
}

func grupoToResponse(g *model.GrupoImportacion) *dto.GrupoResponse {
	return &dto.GrupoResponse{
		ID:         g.ID.String(),
		Codigo:     g.Codigo,
		LicenciaID: g.LicenciaID.String(),
		Estado:     g.Estado,
		Anulado:    g.Anulado,
		CreatedAt:  g.CreatedAt.Format(time.RFC3339),
	}
}
