package dto

import (
	"strings"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/pkg/validation"
)

// CreateCursoRequest is the payload for registering a course. Field order is
// the order in which failures are reported.
type CreateCursoRequest struct {
	Curso       string `json:"curso" validate:"required,min=3,max=100"`
	Creditos    *int   `json:"creditos" validate:"required,min=1,max=10"`
	HoraSemanal *int   `json:"hora_semanal" validate:"required,min=1,max=20"`
	Ciclo       *int   `json:"ciclo" validate:"required,min=1,max=10"`
	IDDocente   string `json:"id_docente" validate:"required,uuid"`
}

// Normalize trims the course name and lowercases the docente id. It runs
// before validation so length rules apply to the stored value.
func (r *CreateCursoRequest) Normalize() {
	r.Curso = strings.TrimSpace(r.Curso)
	r.IDDocente = strings.ToLower(strings.TrimSpace(r.IDDocente))
}

// ToCurso builds the record to insert. Call only after validation.
func (r CreateCursoRequest) ToCurso() *models.Curso {
	return &models.Curso{
		Curso:       r.Curso,
		Creditos:    deref(r.Creditos),
		HoraSemanal: deref(r.HoraSemanal),
		Ciclo:       deref(r.Ciclo),
		IDDocente:   r.IDDocente,
	}
}

// UpdateCursoRequest is a partial update; absent fields stay unchanged.
// Supplied fields are checked even when zero or empty.
type UpdateCursoRequest struct {
	Curso       *string `json:"curso,omitempty" validate:"omitempty,min=3,max=100"`
	Creditos    *int    `json:"creditos,omitempty" validate:"omitempty,min=1,max=10"`
	HoraSemanal *int    `json:"hora_semanal,omitempty" validate:"omitempty,min=1,max=20"`
	Ciclo       *int    `json:"ciclo,omitempty" validate:"omitempty,min=1,max=10"`
	IDDocente   *string `json:"id_docente,omitempty" validate:"omitempty,uuid"`
}

// Normalize mirrors CreateCursoRequest.Normalize for the supplied fields.
func (r *UpdateCursoRequest) Normalize() {
	if r.Curso != nil {
		name := strings.TrimSpace(*r.Curso)
		r.Curso = &name
	}
	if r.IDDocente != nil {
		id := strings.ToLower(strings.TrimSpace(*r.IDDocente))
		r.IDDocente = &id
	}
}

// ToPatch converts the request into a storage patch. Call only after
// validation.
func (r UpdateCursoRequest) ToPatch() models.CursoPatch {
	return models.CursoPatch{
		Curso:       r.Curso,
		Creditos:    r.Creditos,
		HoraSemanal: r.HoraSemanal,
		Ciclo:       r.Ciclo,
		IDDocente:   r.IDDocente,
	}
}

// CursoIDParams validates the :id path parameter.
type CursoIDParams struct {
	ID string `json:"id" validate:"required,uuid"`
}

// CicloParams validates the :ciclo path parameter once coerced to an integer.
type CicloParams struct {
	Ciclo *int `json:"ciclo" validate:"required,min=1,max=10"`
}

// ExportParams validates the export query string.
type ExportParams struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
	Ciclo  *int   `json:"ciclo" validate:"omitempty,min=1,max=10"`
}

// CursoMessages is the message catalogue for every curso schema.
var CursoMessages = validation.Messages{
	"curso.required": "El nombre del curso es requerido",
	"curso.min":      "El nombre del curso debe tener al menos 3 caracteres",
	"curso.max":      "El nombre del curso no puede exceder 100 caracteres",
	"curso.type":     "El nombre del curso debe ser un texto",

	"creditos.required": "Los créditos son requeridos",
	"creditos.type":     "Los créditos deben ser un número",
	"creditos.integer":  "Los créditos deben ser un número entero",
	"creditos.min":      "Los créditos deben ser al menos 1",
	"creditos.max":      "Los créditos no pueden exceder 10",

	"hora_semanal.required": "Las horas semanales son requeridas",
	"hora_semanal.type":     "Las horas semanales deben ser un número",
	"hora_semanal.integer":  "Las horas semanales deben ser un número entero",
	"hora_semanal.min":      "Las horas semanales deben ser al menos 1",
	"hora_semanal.max":      "Las horas semanales no pueden exceder 20",

	"ciclo.required": "El ciclo es requerido",
	"ciclo.type":     "El ciclo debe ser un número",
	"ciclo.integer":  "El ciclo debe ser un número entero",
	"ciclo.min":      "El ciclo debe ser al menos 1",
	"ciclo.max":      "El ciclo no puede exceder 10",

	"id_docente.required": "El ID del docente es requerido",
	"id_docente.uuid":     "El ID del docente debe ser un UUID válido",
	"id_docente.type":     "El ID del docente debe ser un UUID válido",

	"id.required": "El ID del curso es requerido",
	"id.uuid":     "El ID del curso debe ser un UUID válido",

	"format.required": "El formato de exportación es requerido",
	"format.oneof":    "El formato de exportación debe ser csv o pdf",

	"*.unknown": "El campo \"%s\" no está permitido",
	".syntax":   "El cuerpo de la solicitud no es un JSON válido",
}

// NewCursoValidator returns a validator loaded with the curso catalogue.
func NewCursoValidator() *validation.Validator {
	return validation.New(CursoMessages)
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
