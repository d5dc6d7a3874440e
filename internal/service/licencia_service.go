package service

import (
	"context"

	"github.com/Gmarm-org/gmarm-sub002/internal/dto"
	"github.com/Gmarm-org/gmarm-sub002/internal/model"
	"github.com/Gmarm-org/gmarm-sub002/internal/repository"

	"github.com/google/uuid"
)

type LicenciaService interface {
	Crear(ctx context.Context, req dto.CrearLicenciaRequest) (*dto.LicenciaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.LicenciaResponse, error)
	Listar(ctx context.Context) ([]dto.LicenciaResponse, error)
}

type licenciaService struct {
	repo repository.LicenciaRepository
}

func NewLicenciaService(repo repository.LicenciaRepository) LicenciaService {
	return &licenciaService{repo: repo}
}

func (s *licenciaService) Crear(ctx context.Context, req dto.CrearLicenciaRequest) (*dto.LicenciaResponse, error) {
	licencia := &model.Licencia{
		Numero:         req.Numero,
		CupoCivil:      req.CupoCivil,
		CupoUniformado: req.CupoUniformado,
		CupoEmpresa:    req.CupoEmpresa,
		CupoDeportista: req.CupoDeportista,
		// La capacidad disponible nace igual a la total.
		DisponibleCivil:      req.CupoCivil,
		DisponibleUniformado: req.CupoUniformado,
		DisponibleEmpresa:    req.CupoEmpresa,
		DisponibleDeportista: req.CupoDeportista,
		Activa:               true,
	}
	if err := s.repo.Crear(ctx, licencia); err != nil {
		return nil, err
	}
	return licenciaToResponse(licencia), nil
}

func (s *licenciaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.LicenciaResponse, error) {
	licencia, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return licenciaToResponse(licencia), nil
}

func (s *licenciaService) Listar(ctx context.Context) ([]dto.LicenciaResponse, error) {
	licencias, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LicenciaResponse, 0, len(licencias))
	for i := range licencias {
		out = append(out, *licenciaToResponse(&licencias[i]))
	}
	return out, nil
}

func licenciaToResponse(l *model.Licencia) *dto.LicenciaResponse {
	return &dto.LicenciaResponse{
		ID:                   l.ID.String(),
		Numero:               l.Numero,
		CupoTotal:            l.CupoTotal(),
		CupoCivil:            l.CupoCivil,
		CupoUniformado:       l.CupoUniformado,
		CupoEmpresa:          l.CupoEmpresa,
		CupoDeportista:       l.CupoDeportista,
		DisponibleCivil:      l.DisponibleCivil,
		DisponibleUniformado: l.DisponibleUniformado,
		DisponibleEmpresa:    l.DisponibleEmpresa,
		DisponibleDeportista: l.DisponibleDeportista,
		Activa:               l.Activa,
	}
}
