package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-records-api/internal/models"
)

const docenteSelect = `SELECT id, apellidos, nombres, profesion, TO_CHAR(fecha_nacimiento, 'YYYY-MM-DD') AS fecha_nacimiento, correo, created_at, updated_at FROM docentes`

// DocenteRepository provides read access to docentes.
type DocenteRepository struct {
	db *sqlx.DB
}

// NewDocenteRepository constructs a DocenteRepository.
func NewDocenteRepository(db *sqlx.DB) *DocenteRepository {
	return &DocenteRepository{db: db}
}

// List returns every docente ordered by surname.
func (r *DocenteRepository) List(ctx context.Context) ([]models.Docente, error) {
	docentes := []models.Docente{}
	if err := r.db.SelectContext(ctx, &docentes, docenteSelect+" ORDER BY apellidos ASC, nombres ASC"); err != nil {
		return nil, fmt.Errorf("list docentes: %w", err)
	}
	return docentes, nil
}

// ExistsByID checks whether a docente with id exists.
func (r *DocenteRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM docentes WHERE id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check docente: %w", err)
	}
	return true, nil
}
