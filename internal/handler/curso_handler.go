package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/dto"
	"github.com/noah-isme/academic-records-api/internal/middleware"
	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/service"
	"github.com/noah-isme/academic-records-api/pkg/response"
	"github.com/noah-isme/academic-records-api/pkg/validation"
)

type cursoService interface {
	ListAll(ctx context.Context) ([]models.CursoWithDocente, error)
	Get(ctx context.Context, id string) (*models.CursoWithDocente, error)
	ListByCiclo(ctx context.Context, ciclo int) ([]models.CursoWithDocente, error)
	Create(ctx context.Context, req dto.CreateCursoRequest) (*models.Curso, error)
	Update(ctx context.Context, id string, req dto.UpdateCursoRequest) (*models.Curso, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*models.CursoSummary, error)
}

type cursoExporter interface {
	ExportCursos(ctx context.Context, params dto.ExportParams) (*service.ExportResult, error)
}

// CursoHandler wires course services to HTTP routes.
type CursoHandler struct {
	cursos    cursoService
	exporter  cursoExporter
	validator *validation.Validator
}

// NewCursoHandler constructs a CursoHandler.
func NewCursoHandler(cursos cursoService, exporter cursoExporter, validate *validation.Validator) *CursoHandler {
	if validate == nil {
		validate = dto.NewCursoValidator()
	}
	return &CursoHandler{cursos: cursos, exporter: exporter, validator: validate}
}

// List godoc
// @Summary List cursos
// @Description Cursos with their docente, ordered by ciclo then name
// @Tags Cursos
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.CursoWithDocente}
// @Failure 500 {object} response.Envelope
// @Router /cursos [get]
func (h *CursoHandler) List(c *gin.Context) {
	cursos, err := h.cursos.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cursos, "Cursos obtenidos exitosamente")
}

// Get godoc
// @Summary Get curso
// @Tags Cursos
// @Produce json
// @Param id path string true "Curso ID (UUID)"
// @Success 200 {object} response.Envelope{data=models.CursoWithDocente}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cursos/{id} [get]
func (h *CursoHandler) Get(c *gin.Context) {
	curso, err := h.cursos.Get(c.Request.Context(), middleware.CursoID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, curso, "Curso obtenido exitosamente")
}

// ListByCiclo godoc
// @Summary List cursos of a ciclo
// @Tags Cursos
// @Produce json
// @Param ciclo path int true "Ciclo (1-10)"
// @Success 200 {object} response.Envelope{data=[]models.CursoWithDocente}
// @Failure 400 {object} response.Envelope
// @Router /cursos/ciclo/{ciclo} [get]
func (h *CursoHandler) ListByCiclo(c *gin.Context) {
	ciclo := middleware.Ciclo(c)
	cursos, err := h.cursos.ListByCiclo(c.Request.Context(), ciclo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cursos, fmt.Sprintf("Cursos del ciclo %d obtenidos exitosamente", ciclo))
}

// Create godoc
// @Summary Create curso
// @Tags Cursos
// @Accept json
// @Produce json
// @Param payload body dto.CreateCursoRequest true "Curso payload"
// @Success 201 {object} response.Envelope{data=models.Curso}
// @Failure 400 {object} response.Envelope
// @Router /cursos [post]
func (h *CursoHandler) Create(c *gin.Context) {
	var req dto.CreateCursoRequest
	if err := h.validator.DecodeJSON(c.Request.Body, &req); err != nil {
		response.Error(c, err)
		return
	}
	curso, err := h.cursos.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, curso, "Curso creado exitosamente")
}

// Update godoc
// @Summary Update curso
// @Description Partial update; omitted fields keep their value
// @Tags Cursos
// @Accept json
// @Produce json
// @Param id path string true "Curso ID (UUID)"
// @Param payload body dto.UpdateCursoRequest true "Fields to change"
// @Success 200 {object} response.Envelope{data=models.Curso}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cursos/{id} [put]
func (h *CursoHandler) Update(c *gin.Context) {
	var req dto.UpdateCursoRequest
	if err := h.validator.DecodeJSON(c.Request.Body, &req); err != nil {
		response.Error(c, err)
		return
	}
	curso, err := h.cursos.Update(c.Request.Context(), middleware.CursoID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, curso, "Curso actualizado exitosamente")
}

// Delete godoc
// @Summary Delete curso
// @Tags Cursos
// @Produce json
// @Param id path string true "Curso ID (UUID)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cursos/{id} [delete]
func (h *CursoHandler) Delete(c *gin.Context) {
	if err := h.cursos.Delete(c.Request.Context(), middleware.CursoID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Curso eliminado exitosamente")
}

// Summary godoc
// @Summary Course counters
// @Tags Cursos
// @Produce json
// @Success 200 {object} response.Envelope{data=models.CursoSummary}
// @Router /cursos/summary [get]
func (h *CursoHandler) Summary(c *gin.Context) {
	summary, err := h.cursos.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary, "Resumen de cursos obtenido exitosamente")
}

// Export godoc
// @Summary Export cursos
// @Tags Cursos
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "csv or pdf"
// @Param ciclo query int false "Restrict to one ciclo"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /cursos/export [get]
func (h *CursoHandler) Export(c *gin.Context) {
	ciclo, err := h.validator.CoerceInt("ciclo", c.Query("ciclo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	params := dto.ExportParams{Format: strings.ToLower(strings.TrimSpace(c.Query("format"))), Ciclo: ciclo}
	result, err := h.exporter.ExportCursos(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
