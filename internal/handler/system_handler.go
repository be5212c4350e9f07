package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/service"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
	"github.com/noah-isme/academic-records-api/pkg/response"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler serves the welcome, liveness, readiness and metrics routes.
type SystemHandler struct {
	apiPrefix string
	db        Pinger
	metrics   *service.MetricsService
	now       func() time.Time
}

// NewSystemHandler constructs a SystemHandler.
func NewSystemHandler(apiPrefix string, db Pinger, metrics *service.MetricsService) *SystemHandler {
	return &SystemHandler{apiPrefix: apiPrefix, db: db, metrics: metrics, now: time.Now}
}

// Root godoc
// @Summary API information
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router / [get]
func (h *SystemHandler) Root(c *gin.Context) {
	response.OK(c, gin.H{
		"version": Version,
		"endpoints": gin.H{
			"cursos":   h.apiPrefix + "/cursos",
			"docentes": h.apiPrefix + "/docentes",
			"health":   "/health",
		},
	}, "Bienvenido a la API de Gestión Académica del Instituto Tecnológico San Juan")
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	response.OK(c, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	}, "API de Gestión Académica funcionando correctamente")
}

// Ready godoc
// @Summary Readiness probe
// @Description Checks database connectivity
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			c.Error(err) //nolint:errcheck
			response.Error(c, appErrors.Clone(appErrors.ErrUnavailable, "Base de datos no disponible"))
			return
		}
	}
	response.OK(c, gin.H{"status": "ready"}, "")
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *SystemHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
