package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-records-api/internal/models"
)

// ConstraintCursoDocente names the cursos → docentes foreign key.
const ConstraintCursoDocente = "cursos_id_docente_fkey"

const cursoWithDocenteSelect = `
SELECT c.id, c.curso, c.creditos, c.hora_semanal, c.ciclo, c.id_docente, c.created_at, c.updated_at,
       d.id AS docente_id, d.apellidos AS docente_apellidos, d.nombres AS docente_nombres,
       d.profesion AS docente_profesion, TO_CHAR(d.fecha_nacimiento, 'YYYY-MM-DD') AS docente_fecha_nacimiento,
       d.correo AS docente_correo, d.created_at AS docente_created_at, d.updated_at AS docente_updated_at
FROM cursos c
LEFT JOIN docentes d ON d.id = c.id_docente`

const cursoColumns = `id, curso, creditos, hora_semanal, ciclo, id_docente, created_at, updated_at`

// cursoDocenteRow is the flat shape of the LEFT JOIN; docente columns are
// NULL when the reference does not resolve.
type cursoDocenteRow struct {
	models.Curso
	DocenteID              sql.NullString `db:"docente_id"`
	DocenteApellidos       sql.NullString `db:"docente_apellidos"`
	DocenteNombres         sql.NullString `db:"docente_nombres"`
	DocenteProfesion       sql.NullString `db:"docente_profesion"`
	DocenteFechaNacimiento sql.NullString `db:"docente_fecha_nacimiento"`
	DocenteCorreo          sql.NullString `db:"docente_correo"`
	DocenteCreatedAt       sql.NullTime   `db:"docente_created_at"`
	DocenteUpdatedAt       sql.NullTime   `db:"docente_updated_at"`
}

func (r cursoDocenteRow) toModel() models.CursoWithDocente {
	out := models.CursoWithDocente{Curso: r.Curso}
	if r.DocenteID.Valid {
		out.Docente = &models.Docente{
			ID:              r.DocenteID.String,
			Apellidos:       r.DocenteApellidos.String,
			Nombres:         r.DocenteNombres.String,
			Profesion:       r.DocenteProfesion.String,
			FechaNacimiento: r.DocenteFechaNacimiento.String,
			Correo:          r.DocenteCorreo.String,
			CreatedAt:       r.DocenteCreatedAt.Time,
			UpdatedAt:       r.DocenteUpdatedAt.Time,
		}
	}
	return out
}

// CursoRepository manages persistence for cursos.
type CursoRepository struct {
	db *sqlx.DB
}

// NewCursoRepository constructs a CursoRepository.
func NewCursoRepository(db *sqlx.DB) *CursoRepository {
	return &CursoRepository{db: db}
}

// List returns cursos joined with their docente. Without a ciclo filter the
// result is ordered by ciclo then name; within one ciclo, by name.
func (r *CursoRepository) List(ctx context.Context, filter models.CursoFilter) ([]models.CursoWithDocente, error) {
	query := cursoWithDocenteSelect
	var args []interface{}
	if filter.Ciclo > 0 {
		query += " WHERE c.ciclo = $1 ORDER BY c.curso ASC, c.id ASC"
		args = append(args, filter.Ciclo)
	} else {
		query += " ORDER BY c.ciclo ASC, c.curso ASC, c.id ASC"
	}

	var rows []cursoDocenteRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cursos: %w", err)
	}
	cursos := make([]models.CursoWithDocente, 0, len(rows))
	for _, row := range rows {
		cursos = append(cursos, row.toModel())
	}
	return cursos, nil
}

// FindByID fetches a curso with its docente. Returns sql.ErrNoRows when absent.
func (r *CursoRepository) FindByID(ctx context.Context, id string) (*models.CursoWithDocente, error) {
	var row cursoDocenteRow
	if err := r.db.GetContext(ctx, &row, cursoWithDocenteSelect+" WHERE c.id = $1", id); err != nil {
		return nil, err
	}
	curso := row.toModel()
	return &curso, nil
}

// FindCursoByID fetches the bare curso row. Returns sql.ErrNoRows when absent.
func (r *CursoRepository) FindCursoByID(ctx context.Context, id string) (*models.Curso, error) {
	query := "SELECT " + cursoColumns + " FROM cursos WHERE id = $1"
	var curso models.Curso
	if err := r.db.GetContext(ctx, &curso, query, id); err != nil {
		return nil, err
	}
	return &curso, nil
}

// Create inserts a new curso, assigning its id and timestamps.
func (r *CursoRepository) Create(ctx context.Context, curso *models.Curso) error {
	if curso.ID == "" {
		curso.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if curso.CreatedAt.IsZero() {
		curso.CreatedAt = now
	}
	curso.UpdatedAt = now

	const query = `INSERT INTO cursos (id, curso, creditos, hora_semanal, ciclo, id_docente, created_at, updated_at)
		VALUES (:id, :curso, :creditos, :hora_semanal, :ciclo, :id_docente, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, curso); err != nil {
		return fmt.Errorf("create curso: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of an existing curso. Returns
// sql.ErrNoRows if the row vanished since it was loaded.
func (r *CursoRepository) Update(ctx context.Context, curso *models.Curso) error {
	curso.UpdatedAt = time.Now().UTC()
	const query = `UPDATE cursos SET curso = :curso, creditos = :creditos, hora_semanal = :hora_semanal, ciclo = :ciclo, id_docente = :id_docente, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, curso)
	if err != nil {
		return fmt.Errorf("update curso: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated curso rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a curso by id and reports how many rows were removed.
func (r *CursoRepository) Delete(ctx context.Context, id string) (int64, error) {
	const query = `DELETE FROM cursos WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete curso: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check deleted curso rows: %w", err)
	}
	return affected, nil
}

// Summary aggregates the course dashboard counters.
func (r *CursoRepository) Summary(ctx context.Context) (*models.CursoSummary, error) {
	const query = `SELECT COUNT(*) AS total_cursos, COUNT(DISTINCT ciclo) AS ciclos_activos,
       COUNT(DISTINCT id_docente) AS docentes_asignados, COALESCE(SUM(creditos), 0) AS total_creditos
FROM cursos`
	var summary models.CursoSummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("summarise cursos: %w", err)
	}
	return &summary, nil
}
