package service

// Stubs en memoria con la misma semántica condicional que los repositorios
// reales: cada operación "set X where Y" decide bajo mutex, así los tests de
// carrera conservan la garantía de un solo ganador.

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"
	"github.com/Gmarm-org/gmarm-sub002/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── stubCupoRepo ──────────────────────────────────────────────────────────────

type stubCupoRepo struct {
	mu       sync.Mutex
	cupos    map[uuid.UUID]*model.CupoAsignacion
	reservas map[uuid.UUID]*model.CupoReserva
}

func newStubCupoRepo() *stubCupoRepo {
	return &stubCupoRepo{
		cupos:    make(map[uuid.UUID]*model.CupoAsignacion),
		reservas: make(map[uuid.UUID]*model.CupoReserva),
	}
}

func (r *stubCupoRepo) agregar(grupoID uuid.UUID, tipo, categoria string, capacidad int) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &model.CupoAsignacion{
		ID: uuid.New(), GrupoID: grupoID, Tipo: tipo, Categoria: categoria,
		Capacidad: capacidad, Restante: capacidad,
	}
	r.cupos[c.ID] = c
	return c.ID
}

func (r *stubCupoRepo) restante(cupoID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cupos[cupoID].Restante
}

func (r *stubCupoRepo) CrearTx(_ *gorm.DB, c *model.CupoAsignacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	copia := *c
	r.cupos[c.ID] = &copia
	return nil
}

func (r *stubCupoRepo) FindPorCategoria(_ context.Context, grupoID uuid.UUID, tipo, categoria string) (*model.CupoAsignacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cupos {
		if c.GrupoID == grupoID && c.Tipo == tipo && c.Categoria == categoria {
			copia := *c
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCupoRepo) ListarPorGrupo(_ context.Context, grupoID uuid.UUID) ([]model.CupoAsignacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CupoAsignacion
	for _, c := range r.cupos {
		if c.GrupoID == grupoID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tipo != out[j].Tipo {
			return out[i].Tipo < out[j].Tipo
		}
		return out[i].Categoria < out[j].Categoria
	})
	return out, nil
}

func (r *stubCupoRepo) DescontarRestanteTx(_ *gorm.DB, cupoID uuid.UUID, cantidad int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cupos[cupoID]
	if !ok || c.Restante < cantidad {
		return false, nil
	}
	c.Restante -= cantidad
	return true, nil
}

func (r *stubCupoRepo) RestaurarRestanteTx(_ *gorm.DB, cupoID uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cupos[cupoID]; ok {
		c.Restante += cantidad
	}
	return nil
}

func (r *stubCupoRepo) CrearReservaTx(_ *gorm.DB, res *model.CupoReserva) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	copia := *res
	r.reservas[res.ID] = &copia
	return nil
}

func (r *stubCupoRepo) FindReserva(_ context.Context, token uuid.UUID) (*model.CupoReserva, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservas[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *res
	return &copia, nil
}

func (r *stubCupoRepo) MarcarReservaLiberadaTx(_ *gorm.DB, token uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservas[token]
	if !ok || res.Estado != model.CupoReservaActiva {
		return false, nil
	}
	res.Estado = model.CupoReservaLiberada
	return true, nil
}

func (r *stubCupoRepo) VincularReservasTx(_ *gorm.DB, tokens []uuid.UUID, reservaID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range tokens {
		if res, ok := r.reservas[token]; ok {
			id := reservaID
			res.ReservaID = &id
		}
	}
	return nil
}

func (r *stubCupoRepo) ListarReservasPorVinculo(_ context.Context, reservaID uuid.UUID) ([]model.CupoReserva, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CupoReserva
	for _, res := range r.reservas {
		if res.ReservaID != nil && *res.ReservaID == reservaID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *stubCupoRepo) DB() *gorm.DB { return nil }

var _ repository.CupoRepository = (*stubCupoRepo)(nil)

// ── stubSerieRepo ─────────────────────────────────────────────────────────────

type stubSerieRepo struct {
	mu     sync.Mutex
	series map[string]*model.ArmaSerie
}

func newStubSerieRepo() *stubSerieRepo {
	return &stubSerieRepo{series: make(map[string]*model.ArmaSerie)}
}

func (r *stubSerieRepo) estado(numero string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.series[numero].Estado
}

func (r *stubSerieRepo) Crear(_ context.Context, s *model.ArmaSerie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, existe := r.series[s.NumeroSerie]; existe {
		return gorm.ErrDuplicatedKey
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	copia := *s
	r.series[s.NumeroSerie] = &copia
	return nil
}

func (r *stubSerieRepo) FindPorNumero(_ context.Context, numero string) (*model.ArmaSerie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[numero]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *s
	return &copia, nil
}

func (r *stubSerieRepo) FindPorReserva(_ context.Context, reservaID uuid.UUID) (*model.ArmaSerie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.series {
		if s.ReservaID != nil && *s.ReservaID == reservaID {
			copia := *s
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSerieRepo) ListarDisponibles(_ context.Context, armaModeloID uuid.UUID) ([]model.ArmaSerie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ArmaSerie
	for _, s := range r.series {
		if s.ArmaModeloID == armaModeloID && s.Estado == model.SerieDisponible {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubSerieRepo) Reservar(_ context.Context, numero string, ahora time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[numero]
	if !ok || s.Estado != model.SerieDisponible {
		return false, nil
	}
	s.Estado = model.SerieReservada
	t := ahora
	s.ReservadaEn = &t
	return true, nil
}

func (r *stubSerieRepo) Asignar(_ context.Context, numero string, reservaID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[numero]
	if !ok || (s.Estado != model.SerieDisponible && s.Estado != model.SerieReservada) {
		return false, nil
	}
	s.Estado = model.SerieAsignada
	id := reservaID
	s.ReservaID = &id
	s.ReservadaEn = nil
	return true, nil
}

func (r *stubSerieRepo) Liberar(_ context.Context, numero string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[numero]
	if !ok || (s.Estado != model.SerieReservada && s.Estado != model.SerieAsignada) {
		return false, nil
	}
	s.Estado = model.SerieDisponible
	s.ReservaID = nil
	s.ReservadaEn = nil
	return true, nil
}

func (r *stubSerieRepo) MarcarVendida(_ context.Context, numero string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[numero]
	if !ok || s.Estado != model.SerieAsignada {
		return false, nil
	}
	s.Estado = model.SerieVendida
	return true, nil
}

func (r *stubSerieRepo) ListarReservadasAntesDe(_ context.Context, cutoff time.Time) ([]model.ArmaSerie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ArmaSerie
	for _, s := range r.series {
		if s.Estado == model.SerieReservada && s.ReservadaEn != nil && s.ReservadaEn.Before(cutoff) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSerieRepo) DB() *gorm.DB { return nil }

var _ repository.SerieRepository = (*stubSerieRepo)(nil)

// ── stubGrupoRepo ─────────────────────────────────────────────────────────────

type stubGrupoRepo struct {
	mu        sync.Mutex
	grupos    map[uuid.UUID]*model.GrupoImportacion
	historial []model.HistorialEstadoGrupo
	miembros  []model.GrupoCliente
	// categorías de los clientes, para el conteo del resumen
	cats map[uuid.UUID]string
}

func newStubGrupoRepo() *stubGrupoRepo {
	return &stubGrupoRepo{
		grupos: make(map[uuid.UUID]*model.GrupoImportacion),
		cats:   make(map[uuid.UUID]string),
	}
}

func (r *stubGrupoRepo) CrearTx(_ *gorm.DB, g *model.GrupoImportacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	copia := *g
	r.grupos[g.ID] = &copia
	return nil
}

func (r *stubGrupoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.GrupoImportacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grupos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *g
	return &copia, nil
}

func (r *stubGrupoRepo) Listar(_ context.Context) ([]model.GrupoImportacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.GrupoImportacion
	for _, g := range r.grupos {
		out = append(out, *g)
	}
	return out, nil
}

func (r *stubGrupoRepo) ListarActivos(_ context.Context) ([]model.GrupoImportacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.GrupoImportacion
	for _, g := range r.grupos {
		if !g.Anulado && g.Estado != model.EstadoCompletado {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *stubGrupoRepo) ActualizarEstadoTx(_ *gorm.DB, id uuid.UUID, desde, hacia string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grupos[id]
	if !ok || g.Anulado || g.Estado != desde {
		return false, nil
	}
	g.Estado = hacia
	return true, nil
}

func (r *stubGrupoRepo) AnularTx(_ *gorm.DB, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grupos[id]
	if !ok || g.Anulado {
		return false, nil
	}
	g.Anulado = true
	return true, nil
}

func (r *stubGrupoRepo) CrearHistorialTx(_ *gorm.DB, h *model.HistorialEstadoGrupo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.historial = append(r.historial, *h)
	return nil
}

func (r *stubGrupoRepo) ListarHistorial(_ context.Context, grupoID uuid.UUID) ([]model.HistorialEstadoGrupo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.HistorialEstadoGrupo
	for _, h := range r.historial {
		if h.GrupoID == grupoID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubGrupoRepo) AgregarCliente(_ context.Context, gc *model.GrupoCliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.miembros = append(r.miembros, *gc)
	return nil
}

func (r *stubGrupoRepo) QuitarClienteTx(_ *gorm.DB, grupoID, clienteID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	filtrados := r.miembros[:0]
	for _, m := range r.miembros {
		if !(m.GrupoID == grupoID && m.ClienteID == clienteID) {
			filtrados = append(filtrados, m)
		}
	}
	r.miembros = filtrados
	return nil
}

func (r *stubGrupoRepo) ContarClientesPorCategoria(_ context.Context, grupoID uuid.UUID) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conteo := make(map[string]int)
	for _, m := range r.miembros {
		if m.GrupoID == grupoID {
			conteo[r.cats[m.ClienteID]]++
		}
	}
	return conteo, nil
}

func (r *stubGrupoRepo) DB() *gorm.DB { return nil }

var _ repository.GrupoRepository = (*stubGrupoRepo)(nil)

// ── stubLicenciaRepo ──────────────────────────────────────────────────────────

type stubLicenciaRepo struct {
	mu        sync.Mutex
	licencias map[uuid.UUID]*model.Licencia
}

func newStubLicenciaRepo() *stubLicenciaRepo {
	return &stubLicenciaRepo{licencias: make(map[uuid.UUID]*model.Licencia)}
}

func (r *stubLicenciaRepo) agregar(l model.Licencia) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.licencias[l.ID] = &l
	return l.ID
}

func (r *stubLicenciaRepo) disponible(id uuid.UUID, categoria string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.licencias[id]
	switch categoria {
	case model.CategoriaCivil:
		return l.DisponibleCivil
	case model.CategoriaUniformado:
		return l.DisponibleUniformado
	case model.CategoriaEmpresa:
		return l.DisponibleEmpresa
	case model.CategoriaDeportista:
		return l.DisponibleDeportista
	}
	return 0
}

func (r *stubLicenciaRepo) Crear(_ context.Context, l *model.Licencia) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	copia := *l
	r.licencias[l.ID] = &copia
	return nil
}

func (r *stubLicenciaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Licencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.licencias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *l
	return &copia, nil
}

func (r *stubLicenciaRepo) Listar(_ context.Context) ([]model.Licencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Licencia
	for _, l := range r.licencias {
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubLicenciaRepo) DebitarDisponibleTx(_ *gorm.DB, id uuid.UUID, categoria string, cantidad int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.licencias[id]
	if !ok {
		return false, nil
	}
	switch categoria {
	case model.CategoriaCivil:
		if l.DisponibleCivil < cantidad {
			return false, nil
		}
		l.DisponibleCivil -= cantidad
	case model.CategoriaUniformado:
		if l.DisponibleUniformado < cantidad {
			return false, nil
		}
		l.DisponibleUniformado -= cantidad
	case model.CategoriaEmpresa:
		if l.DisponibleEmpresa < cantidad {
			return false, nil
		}
		l.DisponibleEmpresa -= cantidad
	case model.CategoriaDeportista:
		if l.DisponibleDeportista < cantidad {
			return false, nil
		}
		l.DisponibleDeportista -= cantidad
	default:
		return false, nil
	}
	return true, nil
}

func (r *stubLicenciaRepo) RestaurarDisponibleTx(_ *gorm.DB, id uuid.UUID, categoria string, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.licencias[id]
	if !ok {
		return nil
	}
	switch categoria {
	case model.CategoriaCivil:
		l.DisponibleCivil += cantidad
	case model.CategoriaUniformado:
		l.DisponibleUniformado += cantidad
	case model.CategoriaEmpresa:
		l.DisponibleEmpresa += cantidad
	case model.CategoriaDeportista:
		l.DisponibleDeportista += cantidad
	}
	return nil
}

func (r *stubLicenciaRepo) DB() *gorm.DB { return nil }

var _ repository.LicenciaRepository = (*stubLicenciaRepo)(nil)

// ── stubProcesoRepo ───────────────────────────────────────────────────────────

type claveProceso struct {
	grupo  uuid.UUID
	nombre string
}

type stubProcesoRepo struct {
	mu         sync.Mutex
	procesos   map[claveProceso]*model.ProcesoImportacion
	documentos map[claveProceso]*model.DocumentoGrupo
}

func newStubProcesoRepo() *stubProcesoRepo {
	return &stubProcesoRepo{
		procesos:   make(map[claveProceso]*model.ProcesoImportacion),
		documentos: make(map[claveProceso]*model.DocumentoGrupo),
	}
}

func (r *stubProcesoRepo) Upsert(_ context.Context, p *model.ProcesoImportacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *p
	r.procesos[claveProceso{p.GrupoID, p.Nombre}] = &copia
	return nil
}

func (r *stubProcesoRepo) ListarPorGrupo(_ context.Context, grupoID uuid.UUID) ([]model.ProcesoImportacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ProcesoImportacion
	for _, p := range r.procesos {
		if p.GrupoID == grupoID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProcesoRepo) MarcarAlertas(_ context.Context, ahora time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var marcados int64
	for _, p := range r.procesos {
		if !p.Completado && !p.EnAlerta && p.FechaPlanificada != nil && p.FechaPlanificada.Before(ahora) {
			p.EnAlerta = true
			marcados++
		}
	}
	return marcados, nil
}

func (r *stubProcesoRepo) UpsertDocumento(_ context.Context, d *model.DocumentoGrupo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *d
	r.documentos[claveProceso{d.GrupoID, d.Tipo}] = &copia
	return nil
}

func (r *stubProcesoRepo) ListarDocumentos(_ context.Context, grupoID uuid.UUID) ([]model.DocumentoGrupo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DocumentoGrupo
	for _, d := range r.documentos {
		if d.GrupoID == grupoID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubProcesoRepo) ContarObligatoriosPendientes(_ context.Context, grupoID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, d := range r.documentos {
		if d.GrupoID == grupoID && d.Obligatorio && d.Estado != model.DocumentoAprobado {
			total++
		}
	}
	return total, nil
}

var _ repository.ProcesoRepository = (*stubProcesoRepo)(nil)

// ── stubClienteRepo / stubArmaRepo ────────────────────────────────────────────

type stubClienteRepo struct {
	mu       sync.Mutex
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Crear(_ context.Context, c *model.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	copia := *c
	r.clientes[c.ID] = &copia
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

type stubArmaRepo struct {
	mu    sync.Mutex
	armas map[uuid.UUID]*model.ArmaModelo
}

func newStubArmaRepo() *stubArmaRepo {
	return &stubArmaRepo{armas: make(map[uuid.UUID]*model.ArmaModelo)}
}

func (r *stubArmaRepo) Crear(_ context.Context, a *model.ArmaModelo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	copia := *a
	r.armas[a.ID] = &copia
	return nil
}

func (r *stubArmaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ArmaModelo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.armas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *a
	return &copia, nil
}

func (r *stubArmaRepo) Listar(_ context.Context) ([]model.ArmaModelo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ArmaModelo
	for _, a := range r.armas {
		out = append(out, *a)
	}
	return out, nil
}

var _ repository.ArmaRepository = (*stubArmaRepo)(nil)

// ── stubReservaRepo ───────────────────────────────────────────────────────────

type stubReservaRepo struct {
	mu       sync.Mutex
	reservas map[uuid.UUID]*model.ReservaClienteArma
}

func newStubReservaRepo() *stubReservaRepo {
	return &stubReservaRepo{reservas: make(map[uuid.UUID]*model.ReservaClienteArma)}
}

func (r *stubReservaRepo) CrearTx(_ *gorm.DB, res *model.ReservaClienteArma) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	copia := *res
	r.reservas[res.ID] = &copia
	return nil
}

func (r *stubReservaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ReservaClienteArma, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *res
	return &copia, nil
}

func (r *stubReservaRepo) ActualizarSerieTx(_ *gorm.DB, id uuid.UUID, serieID uuid.UUID, asignadaPor *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.reservas[id]; ok {
		sid := serieID
		res.ArmaSerieID = &sid
		res.AsignadaPor = asignadaPor
	}
	return nil
}

func (r *stubReservaRepo) MarcarLiberadaTx(_ *gorm.DB, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservas[id]
	if !ok || res.Estado != model.ReservaActiva {
		return false, nil
	}
	res.Estado = model.ReservaLiberada
	return true, nil
}

func (r *stubReservaRepo) ListarActivasPorGrupo(_ context.Context, grupoID uuid.UUID) ([]model.ReservaClienteArma, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ReservaClienteArma
	for _, res := range r.reservas {
		if res.GrupoID == grupoID && res.Estado == model.ReservaActiva {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *stubReservaRepo) ListarActivasPorCliente(_ context.Context, grupoID, clienteID uuid.UUID) ([]model.ReservaClienteArma, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ReservaClienteArma
	for _, res := range r.reservas {
		if res.GrupoID == grupoID && res.ClienteID == clienteID && res.Estado == model.ReservaActiva {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *stubReservaRepo) DB() *gorm.DB { return nil }

var _ repository.ReservaRepository = (*stubReservaRepo)(nil)
