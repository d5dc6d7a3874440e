package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Gmarm-org/gmarm-sub002/internal/dto"
	"github.com/Gmarm-org/gmarm-sub002/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type asignacionFixture struct {
	*grupoFixture
	svc         AsignacionService
	serieRepo   *stubSerieRepo
	reservaRepo *stubReservaRepo
	armaRepo    *stubArmaRepo
	grupoID     uuid.UUID
	cliente     *model.Cliente
	arma        *model.ArmaModelo
}

func newAsignacionFixture(t *testing.T) *asignacionFixture {
	t.Helper()
	f := &asignacionFixture{
		grupoFixture: newGrupoFixture(t),
		serieRepo:    newStubSerieRepo(),
		reservaRepo:  newStubReservaRepo(),
		armaRepo:     newStubArmaRepo(),
	}
	ctx := context.Background()

	f.grupoID = f.crearGrupo(t, "GRP-ASG")

	f.cliente = &model.Cliente{Nombre: "Juan Pérez", Documento: "0912345678", Categoria: model.CategoriaCivil}
	require.NoError(t, f.clienteRepo.Crear(ctx, f.cliente))
	f.grupoRepo.cats[f.cliente.ID] = f.cliente.Categoria

	f.arma = &model.ArmaModelo{
		Nombre: "G17 Gen5", Marca: "Glock", Categoria: "PISTOLA",
		Precio: decimal.NewFromInt(850), Activo: true,
	}
	require.NoError(t, f.armaRepo.Crear(ctx, f.arma))

	cargarSerie(t, f.serieRepo, f.arma.ID, "GLK-1001")
	cargarSerie(t, f.serieRepo, f.arma.ID, "GLK-1002")

	cupoSvc := NewCupoService(f.cupoRepo)
	serieSvc := NewSerieService(f.serieRepo)
	f.svc = NewAsignacionService(
		f.reservaRepo, f.serieRepo, f.cupoRepo, f.grupoRepo, f.armaRepo, f.clienteRepo,
		f.grupoFixture.svc, cupoSvc, serieSvc, nil,
	)
	return f
}

func (f *asignacionFixture) restante(t *testing.T, tipo, categoria string) int {
	t.Helper()
	cupo, err := f.cupoRepo.FindPorCategoria(context.Background(), f.grupoID, tipo, categoria)
	require.NoError(t, err)
	return cupo.Restante
}

func (f *asignacionFixture) asignar(numeroSerie string) (*dto.ReservaResponse, error) {
	return f.svc.AsignarArmaCliente(context.Background(), dto.AsignarArmaClienteRequest{
		GrupoID:      f.grupoID.String(),
		ClienteID:    f.cliente.ID.String(),
		ArmaModeloID: f.arma.ID.String(),
		Precio:       decimal.NewFromInt(850),
		Cantidad:     1,
		NumeroSerie:  numeroSerie,
	})
}

func TestAsignarArmaClienteConSerie(t *testing.T) {
	f := newAsignacionFixture(t)

	resp, err := f.asignar("GLK-1001")
	require.NoError(t, err)

	assert.Equal(t, model.ReservaActiva, resp.Estado)
	assert.Equal(t, "GLK-1001", resp.NumeroSerie)

	// Ambos cupos debitados: categoría del cliente y categoría del arma.
	assert.Equal(t, 24, f.restante(t, model.CupoTipoCliente, model.CategoriaCivil))
	assert.Equal(t, 19, f.restante(t, model.CupoTipoArma, "PISTOLA"))
	assert.Equal(t, model.SerieAsignada, f.serieRepo.estado("GLK-1001"))

	// La reserva persistida quedó atada a la serie desde el INSERT.
	reservaID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	reserva, err := f.reservaRepo.FindByID(context.Background(), reservaID)
	require.NoError(t, err)
	require.NotNil(t, reserva.ArmaSerieID)
	serie, err := f.serieRepo.FindPorNumero(context.Background(), "GLK-1001")
	require.NoError(t, err)
	assert.Equal(t, serie.ID, *reserva.ArmaSerieID)
}

func TestAsignarArmaClienteSinSerie(t *testing.T) {
	f := newAsignacionFixture(t)

	resp, err := f.asignar("")
	require.NoError(t, err)

	assert.Empty(t, resp.NumeroSerie)
	assert.Equal(t, 24, f.restante(t, model.CupoTipoCliente, model.CategoriaCivil))
	// Ninguna serie fue tocada.
	assert.Equal(t, model.SerieDisponible, f.serieRepo.estado("GLK-1001"))
	assert.Equal(t, model.SerieDisponible, f.serieRepo.estado("GLK-1002"))
}

func TestAsignarSerieOcupadaCompensaCupos(t *testing.T) {
	f := newAsignacionFixture(t)
	ctx := context.Background()

	// Otro vendedor ya tomó la serie.
	ok, err := f.serieRepo.Asignar(ctx, "GLK-1001", uuid.New())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.asignar("GLK-1001")
	assert.ErrorIs(t, err, ErrConflictoSerie)

	// El débito de cupo se revirtió completo.
	assert.Equal(t, 25, f.restante(t, model.CupoTipoCliente, model.CategoriaCivil))
	assert.Equal(t, 20, f.restante(t, model.CupoTipoArma, "PISTOLA"))
}

func TestAsignarGrupoCerradoFallaRapido(t *testing.T) {
	f := newAsignacionFixture(t)
	f.avanzarHasta(t, f.grupoID, model.EstadoSolicitarProformaFabrica)

	_, err := f.asignar("GLK-1001")
	assert.ErrorIs(t, err, ErrGrupoCerrado)

	assert.Equal(t, 25, f.restante(t, model.CupoTipoCliente, model.CategoriaCivil))
	assert.Equal(t, model.SerieDisponible, f.serieRepo.estado("GLK-1001"))
}

func TestAsignarCupoAgotadoNoTocaSerie(t *testing.T) {
	f := newAsignacionFixture(t)
	ctx := context.Background()

	// Agotar el cupo civil por completo.
	cupo, err := f.cupoRepo.FindPorCategoria(ctx, f.grupoID, model.CupoTipoCliente, model.CategoriaCivil)
	require.NoError(t, err)
	ok, err := f.cupoRepo.DescontarRestanteTx(nil, cupo.ID, cupo.Restante)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.asignar("GLK-1001")
	assert.ErrorIs(t, err, ErrCupoExcedido)
	assert.Equal(t, model.SerieDisponible, f.serieRepo.estado("GLK-1001"))
}

func TestAsignarCarreraPorSerieUnSoloGanador(t *testing.T) {
	f := newAsignacionFixture(t)

	const vendedores = 6
	var wg sync.WaitGroup
	resultados := make(chan error, vendedores)
	for i := 0; i < vendedores; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.asignar("GLK-1001")
			resultados <- err
		}()
	}
	wg.Wait()
	close(resultados)

	ganadores := 0
	for err := range resultados {
		if err == nil {
			ganadores++
		} else {
			assert.ErrorIs(t, err, ErrConflictoSerie)
		}
	}
	assert.Equal(t, 1, ganadores)

	// Sólo el ganador retuvo cupo; los perdedores devolvieron el suyo.
	assert.Equal(t, 24, f.restante(t, model.CupoTipoCliente, model.CategoriaCivil))
	assert.Equal(t, 19, f.restante(t, model.CupoTipoArma, "PISTOLA"))
}

func TestLiberarAsignacionIdempotente(t *testing.T) {
	f := newAsignacionFixture(t)

	resp, err := f.asignar("GLK-1001")
	require.NoError(t, err)
	reservaID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, f.svc.LiberarAsignacion(ctx, reservaID))

	// Serie de vuelta al pool y cupos restaurados.
	assert.Equal(t, model.SerieDisponible, f.serieRepo.estado("GLK-1001"))
	assert.Equal(t, 25, f.restante(t, model.CupoTipoCliente, model.CategoriaCivil))
	assert.Equal(t, 20, f.restante(t, model.CupoTipoArma, "PISTOLA"))

	// Reintento: no restaura dos veces.
	require.NoError(t, f.svc.LiberarAsignacion(ctx, reservaID))
	assert.Equal(t, 25, f.restante(t, model.CupoTipoCliente, model.CategoriaCivil))

	reserva, err := f.reservaRepo.FindByID(ctx, reservaID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservaLiberada, reserva.Estado)
}

// serieRepoInestable falla las primeras liberaciones, como una caída
// transitoria de conexión a mitad de la limpieza.
type serieRepoInestable struct {
	*stubSerieRepo
	fallosLiberar int
}

func (r *serieRepoInestable) Liberar(ctx context.Context, numero string) (bool, error) {
	if r.fallosLiberar > 0 {
		r.fallosLiberar--
		return false, errors.New("conexion perdida")
	}
	return r.stubSerieRepo.Liberar(ctx, numero)
}

func TestLiberarAsignacionReintentoTrasFalloParcial(t *testing.T) {
	f := newAsignacionFixture(t)
	ctx := context.Background()

	resp, err := f.asignar("GLK-1001")
	require.NoError(t, err)
	reservaID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	inestable := &serieRepoInestable{stubSerieRepo: f.serieRepo, fallosLiberar: 1}
	svc := NewAsignacionService(
		f.reservaRepo, inestable, f.cupoRepo, f.grupoRepo, f.armaRepo, f.clienteRepo,
		f.grupoFixture.svc, NewCupoService(f.cupoRepo), NewSerieService(inestable), nil,
	)

	// Primer intento: la serie no se pudo devolver, la liberación falla y la
	// reserva tiene que seguir activa para que el reintento haga el trabajo.
	require.Error(t, svc.LiberarAsignacion(ctx, reservaID))
	reserva, err := f.reservaRepo.FindByID(ctx, reservaID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservaActiva, reserva.Estado)
	assert.Equal(t, model.SerieAsignada, f.serieRepo.estado("GLK-1001"))

	// Reintento: devuelve serie y cupos, y recién entonces marca liberada.
	require.NoError(t, svc.LiberarAsignacion(ctx, reservaID))
	assert.Equal(t, model.SerieDisponible, f.serieRepo.estado("GLK-1001"))
	assert.Equal(t, 25, f.restante(t, model.CupoTipoCliente, model.CategoriaCivil))
	assert.Equal(t, 20, f.restante(t, model.CupoTipoArma, "PISTOLA"))

	reserva, err = f.reservaRepo.FindByID(ctx, reservaID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservaLiberada, reserva.Estado)
}

func TestLiberarAsignacionInexistente(t *testing.T) {
	f := newAsignacionFixture(t)
	err := f.svc.LiberarAsignacion(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrReservaNoEncontrada)
}

func TestFinalizarSerieDiferida(t *testing.T) {
	f := newAsignacionFixture(t)
	ctx := context.Background()

	resp, err := f.asignar("")
	require.NoError(t, err)

	usuario := uuid.New()
	final, err := f.svc.FinalizarSerie(ctx, dto.AsignarSerieRequest{
		ClienteArmaID:      resp.ID,
		NumeroSerie:        "GLK-1002",
		UsuarioAsignadorID: usuario.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, "GLK-1002", final.NumeroSerie)
	assert.Equal(t, model.SerieAsignada, f.serieRepo.estado("GLK-1002"))

	reservaID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	reserva, err := f.reservaRepo.FindByID(ctx, reservaID)
	require.NoError(t, err)
	require.NotNil(t, reserva.ArmaSerieID)
	require.NotNil(t, reserva.AsignadaPor)
	assert.Equal(t, usuario, *reserva.AsignadaPor)
}

func TestFinalizarSerieConflicto(t *testing.T) {
	f := newAsignacionFixture(t)
	ctx := context.Background()

	resp, err := f.asignar("")
	require.NoError(t, err)

	// La serie elegida ya está tomada por otra reserva.
	ok, err := f.serieRepo.Asignar(ctx, "GLK-1002", uuid.New())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.svc.FinalizarSerie(ctx, dto.AsignarSerieRequest{
		ClienteArmaID:      resp.ID,
		NumeroSerie:        "GLK-1002",
		UsuarioAsignadorID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, ErrConflictoSerie)
}

func TestFinalizarSerieSobreReservaLiberada(t *testing.T) {
	f := newAsignacionFixture(t)
	ctx := context.Background()

	resp, err := f.asignar("")
	require.NoError(t, err)
	reservaID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.LiberarAsignacion(ctx, reservaID))

	_, err = f.svc.FinalizarSerie(ctx, dto.AsignarSerieRequest{
		ClienteArmaID:      resp.ID,
		NumeroSerie:        "GLK-1002",
		UsuarioAsignadorID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, ErrReservaNoEncontrada)
	assert.Equal(t, model.SerieDisponible, f.serieRepo.estado("GLK-1002"))
}

func TestQuitarClienteLiberaSusReservas(t *testing.T) {
	f := newAsignacionFixture(t)
	ctx := context.Background()

	require.NoError(t, f.grupoFixture.svc.AgregarCliente(ctx, f.grupoID, f.cliente.ID))
	_, err := f.asignar("GLK-1001")
	require.NoError(t, err)

	require.NoError(t, f.svc.QuitarClienteDeGrupo(ctx, f.grupoID, f.cliente.ID))

	assert.Equal(t, model.SerieDisponible, f.serieRepo.estado("GLK-1001"))
	assert.Equal(t, 25, f.restante(t, model.CupoTipoCliente, model.CategoriaCivil))

	conteo, err := f.grupoRepo.ContarClientesPorCategoria(ctx, f.grupoID)
	require.NoError(t, err)
	assert.Equal(t, 0, conteo[model.CategoriaCivil])
}

func TestAnularGrupoLiberaTodoYRestauraLicencia(t *testing.T) {
	f := newAsignacionFixture(t)
	ctx := context.Background()

	_, err := f.asignar("GLK-1001")
	require.NoError(t, err)

	require.NoError(t, f.svc.AnularGrupo(ctx, f.grupoID))

	assert.Equal(t, model.SerieDisponible, f.serieRepo.estado("GLK-1001"))
	assert.Equal(t, 25, f.licenciaRepo.disponible(f.licenciaID, model.CategoriaCivil))

	grupo, err := f.grupoRepo.FindByID(ctx, f.grupoID)
	require.NoError(t, err)
	assert.True(t, grupo.Anulado)

	reservas, err := f.reservaRepo.ListarActivasPorGrupo(ctx, f.grupoID)
	require.NoError(t, err)
	assert.Empty(t, reservas)
}
