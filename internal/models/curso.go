package models

import "time"

// Bounds shared by schemas, storage constraints and clients.
const (
	CursoNombreMin = 3
	CursoNombreMax = 100
	CreditosMin    = 1
	CreditosMax    = 10
	HorasMin       = 1
	HorasMax       = 20
	CicloMin       = 1
	CicloMax       = 10
)

// Curso represents a course offered in an academic cycle.
type Curso struct {
	ID          string    `db:"id" json:"id"`
	Curso       string    `db:"curso" json:"curso"`
	Creditos    int       `db:"creditos" json:"creditos"`
	HoraSemanal int       `db:"hora_semanal" json:"hora_semanal"`
	Ciclo       int       `db:"ciclo" json:"ciclo"`
	IDDocente   string    `db:"id_docente" json:"id_docente"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CursoWithDocente joins a course with its teacher. Docente is nil when the
// reference does not resolve.
type CursoWithDocente struct {
	Curso
	Docente *Docente `json:"docente,omitempty"`
}

// CursoPatch lists the fields an update may change; nil means "not supplied".
type CursoPatch struct {
	Curso       *string
	Creditos    *int
	HoraSemanal *int
	Ciclo       *int
	IDDocente   *string
}

// Empty reports whether no field was supplied.
func (p CursoPatch) Empty() bool {
	return p.Curso == nil && p.Creditos == nil && p.HoraSemanal == nil && p.Ciclo == nil && p.IDDocente == nil
}

// Apply copies supplied fields onto c.
func (p CursoPatch) Apply(c *Curso) {
	if p.Curso != nil {
		c.Curso = *p.Curso
	}
	if p.Creditos != nil {
		c.Creditos = *p.Creditos
	}
	if p.HoraSemanal != nil {
		c.HoraSemanal = *p.HoraSemanal
	}
	if p.Ciclo != nil {
		c.Ciclo = *p.Ciclo
	}
	if p.IDDocente != nil {
		c.IDDocente = *p.IDDocente
	}
}

// CursoFilter narrows course listings. Zero values mean "no filter".
type CursoFilter struct {
	Ciclo int
}

// CursoSummary aggregates the dashboard counters.
type CursoSummary struct {
	TotalCursos       int `db:"total_cursos" json:"total_cursos"`
	CiclosActivos     int `db:"ciclos_activos" json:"ciclos_activos"`
	DocentesAsignados int `db:"docentes_asignados" json:"docentes_asignados"`
	TotalCreditos     int `db:"total_creditos" json:"total_creditos"`
}
