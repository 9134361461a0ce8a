package router

import (
	"gestoreventos/internal/config"
	"gestoreventos/internal/handler"
	"gestoreventos/internal/infra"
	"gestoreventos/internal/middleware"
	"gestoreventos/internal/repository"
	"gestoreventos/internal/service"
	"gestoreventos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure clients built by the composition root and
// shared with the worker pool.
type Deps struct {
	Catalogo    *infra.CatalogoClient
	Mailer      *infra.Mailer
	RateLimiter *middleware.RateLimiter
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
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
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware())
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	eventoRepo := repository.NewEventoRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	servicioRepo := repository.NewServicioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Notifications are enqueued on Redis after commit; the worker pool delivers them.
	dispatcher := worker.NewDispatcher(rdb)

	pagoSvc := service.NewPagoService(eventoRepo, pagoRepo, dispatcher)
	eventoSvc := service.NewEventoService(eventoRepo, pagoRepo, servicioRepo, deps.Catalogo, dispatcher)
	servicioSvc := service.NewServicioService(eventoRepo, servicioRepo, deps.Catalogo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	eventosH := handler.NewEventosHandler(eventoSvc)
	pagosH := handler.NewPagosHandler(pagoSvc)
	serviciosH := handler.NewServiciosHandler(servicioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, deps.Catalogo.Breaker(), deps.Mailer.Breaker()))

	const (
		admin = middleware.RolAdministrador
		fin   = middleware.RolFinanzas
		coord = middleware.RolCoordinador
		recep = middleware.RolRecepcion
	)
	todos := middleware.RequireRole(admin, fin, coord, recep)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		ev := v1.Group("/eventos")
		{
			ev.POST("", middleware.RequireRole(admin, coord, recep), eventosH.Crear)
			ev.GET("/:id", todos, eventosH.Obtener)
			ev.PUT("/:id/total", middleware.RequireRole(admin, fin), eventosH.ActualizarTotal)
			ev.PATCH("/:id/estado", middleware.RequireRole(admin, coord), eventosH.CambiarEstado)
			ev.POST("/:id/completar", middleware.RequireRole(admin, coord), eventosH.Completar)
			ev.DELETE("/:id", middleware.RequireRole(admin), eventosH.Eliminar)

			ev.POST("/:id/danos/pagos", middleware.RequireRole(admin, fin, recep), eventosH.RegistrarPagoDanos)
			ev.GET("/:id/danos/pagos", todos, eventosH.ListarPagosDanos)

			// Anyone may capture a payment; it stays en_revision until finanzas reviews it.
			ev.POST("/:id/pagos", todos, pagosH.Registrar)
			ev.GET("/:id/pagos", todos, pagosH.Listar)
			ev.GET("/:id/resumen", todos, pagosH.Resumen)
			ev.POST("/:id/reembolsos/propuesta", middleware.RequireRole(admin, fin), pagosH.ProponerReembolso)
			ev.POST("/:id/reembolsos", middleware.RequireRole(admin, fin), pagosH.ConfirmarReembolso)

			ev.GET("/:id/servicios", todos, serviciosH.Listar)
			ev.POST("/:id/servicios", middleware.RequireRole(admin, coord), serviciosH.Agregar)
			ev.POST("/:id/servicios/generar", middleware.RequireRole(admin, coord), serviciosH.GenerarDesdePlan)
		}

		pagos := v1.Group("/pagos", middleware.RequireRole(admin, fin))
		{
			pagos.POST("/:id/aprobar", pagosH.Aprobar)
			pagos.POST("/:id/rechazar", pagosH.Rechazar)
		}

		servicios := v1.Group("/servicios", middleware.RequireRole(admin, coord))
		{
			servicios.DELETE("/:id", serviciosH.Eliminar)
			servicios.PATCH("/:id/completado", serviciosH.MarcarCompletado)
			servicios.PATCH("/:id/descartado", serviciosH.MarcarDescartado)
		}

		v1.POST("/admin/notificaciones/redrive", middleware.RequireRole(admin), handler.RedriveNotificaciones(rdb))
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
