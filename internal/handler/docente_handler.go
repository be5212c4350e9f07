package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/pkg/response"
)

type docenteService interface {
	List(ctx context.Context) ([]models.Docente, error)
}

// DocenteHandler exposes read-only docente routes.
type DocenteHandler struct {
	docentes docenteService
}

// NewDocenteHandler constructs a DocenteHandler.
func NewDocenteHandler(docentes docenteService) *DocenteHandler {
	return &DocenteHandler{docentes: docentes}
}

// List godoc
// @Summary List docentes
// @Description Ordered by apellidos
// @Tags Docentes
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Docente}
// @Failure 500 {object} response.Envelope
// @Router /docentes [get]
func (h *DocenteHandler) List(c *gin.Context) {
	docentes, err := h.docentes.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, docentes, "Docentes obtenidos exitosamente")
}
