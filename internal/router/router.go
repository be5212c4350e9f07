// Package router assembles the HTTP route table.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/dto"
	"github.com/noah-isme/academic-records-api/internal/handler"
	"github.com/noah-isme/academic-records-api/internal/middleware"
	"github.com/noah-isme/academic-records-api/internal/service"
	"github.com/noah-isme/academic-records-api/pkg/config"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
	"github.com/noah-isme/academic-records-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academic-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academic-records-api/pkg/middleware/requestid"
	securemiddleware "github.com/noah-isme/academic-records-api/pkg/middleware/secure"
	"github.com/noah-isme/academic-records-api/pkg/response"
	"github.com/noah-isme/academic-records-api/pkg/validation"
)

// Deps carries everything the route table needs. Services are built once
// and shared by all requests.
type Deps struct {
	Config    *config.Config
	Logger    *zap.Logger
	Validator *validation.Validator
	Metrics   *service.MetricsService
	Cursos    *handler.CursoHandler
	Docentes  *handler.DocenteHandler
	System    *handler.SystemHandler
}

// New returns an engine with middleware and routes registered.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = dto.NewCursoValidator()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = false
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", reqidmiddleware.Value(c)))
		response.Abort(c, appErrors.ErrInternal)
	}))
	r.Use(securemiddleware.Headers())
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.BodyLimit(cfg.BodyLimitBytes))

	r.GET("/", deps.System.Root)
	r.GET("/health", deps.System.Health)
	r.GET("/ready", deps.System.Ready)
	r.GET("/metrics", deps.System.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	registerCursoRoutes(api, deps.Cursos, deps.Validator)
	api.GET("/docentes", deps.Docentes.List)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.ErrRouteNotFound)
	})

	return r
}

func registerCursoRoutes(api *gin.RouterGroup, h *handler.CursoHandler, v *validation.Validator) {
	validID := middleware.ValidateCursoID(v)

	cursos := api.Group("/cursos")
	cursos.GET("", h.List)
	cursos.POST("", h.Create)
	cursos.GET("/summary", h.Summary)
	cursos.GET("/export", h.Export)
	cursos.GET("/ciclo/:ciclo", middleware.ValidateCiclo(v), h.ListByCiclo)
	cursos.GET("/:id", validID, h.Get)
	cursos.PUT("/:id", validID, h.Update)
	cursos.DELETE("/:id", validID, h.Delete)
}
