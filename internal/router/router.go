package router

import (
	"time"

	"github.com/Gmarm-org/gmarm-sub002/internal/config"
	"github.com/Gmarm-org/gmarm-sub002/internal/handler"
	"github.com/Gmarm-org/gmarm-sub002/internal/infra"
	"github.com/Gmarm-org/gmarm-sub002/internal/middleware"
	"github.com/Gmarm-org/gmarm-sub002/internal/repository"
	"github.com/Gmarm-org/gmarm-sub002/internal/service"
	"github.com/Gmarm-org/gmarm-sub002/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the configured Gin engine plus the
// GrupoService and SerieService handles the background crons and workers need.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) (*gin.Engine, service.GrupoService, service.SerieService) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	locker := infra.NewLocker(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	licenciaRepo := repository.NewLicenciaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	armaRepo := repository.NewArmaRepository(db)
	serieRepo := repository.NewSerieRepository(db)
	grupoRepo := repository.NewGrupoRepository(db)
	cupoRepo := repository.NewCupoRepository(db)
	procesoRepo := repository.NewProcesoRepository(db)
	reservaRepo := repository.NewReservaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	licenciaSvc := service.NewLicenciaService(licenciaRepo)
	cupoSvc := service.NewCupoService(cupoRepo)
	serieSvc := service.NewSerieService(serieRepo)
	grupoSvc := service.NewGrupoService(grupoRepo, licenciaRepo, cupoRepo, procesoRepo, clienteRepo, locker)
	ingestaSvc := service.NewIngestaService(grupoSvc, serieSvc)
	asignacionSvc := service.NewAsignacionService(
		reservaRepo, serieRepo, cupoRepo, grupoRepo, armaRepo, clienteRepo,
		grupoSvc, cupoSvc, serieSvc, dispatcher,
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cacheTTL := time.Duration(cfg.ResumenCacheTTLSeconds) * time.Second
	licenciasH := handler.NewLicenciasHandler(licenciaSvc)
	gruposH := handler.NewGruposHandler(grupoSvc, asignacionSvc, rdb, cacheTTL)
	seriesH := handler.NewSeriesHandler(serieSvc, ingestaSvc)
	asignacionesH := handler.NewAsignacionesHandler(asignacionSvc, grupoSvc)
	catalogoH := handler.NewCatalogoHandler(clienteRepo, armaRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")
	{
		lic := v1.Group("/licencias")
		{
			lic.POST("", licenciasH.Crear)
			lic.GET("", licenciasH.Listar)
			lic.GET("/:id", licenciasH.Obtener)
		}

		v1.POST("/clientes", catalogoH.CrearCliente)
		v1.GET("/clientes/:id", catalogoH.ObtenerCliente)
		v1.POST("/armas", catalogoH.CrearArma)
		v1.GET("/armas", catalogoH.ListarArmas)

		grupos := v1.Group("/grupos-importacion")
		{
			grupos.POST("", gruposH.Crear)
			grupos.GET("", gruposH.Listar)
			grupos.GET("/:id", gruposH.Obtener)
			grupos.GET("/:id/resumen", gruposH.Resumen)
			grupos.POST("/:id/avanzar", gruposH.Avanzar)
			grupos.POST("/:id/notificar-agente-aduanero", gruposH.NotificarAgenteAduanero)
			grupos.POST("/:id/notificar-pago-fabrica", gruposH.NotificarPagoFabrica)
			grupos.POST("/:id/anular", gruposH.Anular)
			grupos.POST("/:id/clientes/:clienteId", gruposH.AgregarCliente)
			grupos.DELETE("/:id/clientes/:clienteId", gruposH.QuitarCliente)
			grupos.PUT("/:id/procesos", gruposH.ActualizarProcesos)
			grupos.PUT("/:id/documentos", gruposH.ActualizarDocumentos)
		}

		series := v1.Group("/arma-serie")
		{
			series.GET("/disponibles/:armaId", seriesH.Disponibles)
			series.POST("/reservar", seriesH.Reservar)
			series.POST("/asignar", asignacionesH.FinalizarSerie)
			series.POST("/liberar", seriesH.Liberar)
			series.POST("/vendida", seriesH.MarcarVendida)
			series.POST("/bulk-upload", seriesH.BulkUpload)
			series.POST("/bulk-upload-xlsx", seriesH.BulkUploadXLSX)
		}

		asignaciones := v1.Group("/asignaciones")
		{
			asignaciones.POST("", asignacionesH.Crear)
			asignaciones.DELETE("/:id", asignacionesH.Liberar)
			asignaciones.GET("/:id/comprobante", asignacionesH.Comprobante)
		}
	}

	return r, grupoSvc, serieSvc
}
