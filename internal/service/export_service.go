package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/dto"
	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
	"github.com/noah-isme/academic-records-api/pkg/export"
	"github.com/noah-isme/academic-records-api/pkg/validation"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

const (
	colCurso       = "Curso"
	colCreditos    = "Créditos"
	colHoraSemanal = "Horas semanales"
	colCiclo       = "Ciclo"
	colDocente     = "Docente"
	colCorreo      = "Correo"
)

type cursoLister interface {
	ListAll(ctx context.Context) ([]models.CursoWithDocente, error)
	ListByCiclo(ctx context.Context, ciclo int) ([]models.CursoWithDocente, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered document ready to be streamed to the caller.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders course listings as downloadable documents.
type ExportService struct {
	cursos    cursoLister
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the default exporters.
func NewExportService(cursos cursoLister, validate *validation.Validator, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if validate == nil {
		validate = dto.NewCursoValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = &export.PDFExporter{Widths: map[string]float64{colCurso: 3, colDocente: 3, colCorreo: 3}}
	}
	return &ExportService{cursos: cursos, csv: csv, pdf: pdf, validator: validate, logger: logger, now: time.Now}
}

// ExportCursos renders the course listing, optionally narrowed to a ciclo.
func (s *ExportService) ExportCursos(ctx context.Context, params dto.ExportParams) (*ExportResult, error) {
	if err := s.validator.Struct(params); err != nil {
		return nil, err
	}

	var (
		cursos []models.CursoWithDocente
		err    error
		title  = "Listado de cursos"
		scope  = "todos"
	)
	if params.Ciclo != nil {
		cursos, err = s.cursos.ListByCiclo(ctx, *params.Ciclo)
		title = fmt.Sprintf("Cursos del ciclo %d", *params.Ciclo)
		scope = "ciclo" + strconv.Itoa(*params.Ciclo)
	} else {
		cursos, err = s.cursos.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	dataset := buildCursoDataset(cursos)
	result := &ExportResult{
		Filename: fmt.Sprintf("cursos_%s_%s.%s", scope, s.now().UTC().Format("20060102_150405"), params.Format),
	}
	switch params.Format {
	case ExportFormatCSV:
		result.ContentType = "text/csv; charset=utf-8"
		result.Payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		result.ContentType = "application/pdf"
		result.Payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", params.Format)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al exportar cursos")
	}

	s.logger.Debug("cursos exported", zap.String("format", params.Format), zap.Int("rows", len(dataset.Rows)))
	return result, nil
}

func buildCursoDataset(cursos []models.CursoWithDocente) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{colCurso, colCreditos, colHoraSemanal, colCiclo, colDocente, colCorreo},
		Rows:    make([]map[string]string, 0, len(cursos)),
	}
	for _, c := range cursos {
		row := map[string]string{
			colCurso:       c.Curso.Curso,
			colCreditos:    strconv.Itoa(c.Creditos),
			colHoraSemanal: strconv.Itoa(c.HoraSemanal),
			colCiclo:       strconv.Itoa(c.Ciclo),
		}
		if c.Docente != nil {
			row[colDocente] = c.Docente.NombreCompleto()
			row[colCorreo] = c.Docente.Correo
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset
}
