package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-records-api/internal/models"
)

var cursoJoinColumns = []string{
	"id", "curso", "creditos", "hora_semanal", "ciclo", "id_docente", "created_at", "updated_at",
	"docente_id", "docente_apellidos", "docente_nombres", "docente_profesion", "docente_fecha_nacimiento",
	"docente_correo", "docente_created_at", "docente_updated_at",
}

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCursoRepositoryListOrdersByCicloThenName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCursoRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(cursoJoinColumns).
		AddRow("c1", "Álgebra", 4, 6, 1, "d1", now, now, "d1", "García", "Ana", "Matemática", "1980-05-10", "ana@uni.edu", now, now).
		AddRow("c2", "Física", 3, 4, 2, "d9", now, now, nil, nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(`LEFT JOIN docentes d ON d.id = c.id_docente ORDER BY c.ciclo ASC, c.curso ASC`).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.CursoFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Docente)
	assert.Equal(t, "García", list[0].Docente.Apellidos)
	assert.Equal(t, "1980-05-10", list[0].Docente.FechaNacimiento)
	assert.Nil(t, list[1].Docente)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursoRepositoryListByCiclo(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCursoRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.ciclo = $1 ORDER BY c.curso ASC")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(cursoJoinColumns))

	list, err := repo.List(context.Background(), models.CursoFilter{Ciclo: 3})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursoRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCursoRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursoRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCursoRepository(db)

	mock.ExpectExec("INSERT INTO cursos").
		WithArgs(sqlmock.AnyArg(), "Química", 3, 5, 2, "d1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	curso := &models.Curso{Curso: "Química", Creditos: 3, HoraSemanal: 5, Ciclo: 2, IDDocente: "d1"}
	require.NoError(t, repo.Create(context.Background(), curso))
	assert.Len(t, curso.ID, 36)
	assert.False(t, curso.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursoRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCursoRepository(db)

	mock.ExpectExec("UPDATE cursos SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Curso{ID: "c1", Curso: "Química"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursoRepositoryDeleteReportsRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCursoRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cursos WHERE id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), "c1")
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCursoRepositorySummary(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCursoRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total_cursos`).
		WillReturnRows(sqlmock.NewRows([]string{"total_cursos", "ciclos_activos", "docentes_asignados", "total_creditos"}).
			AddRow(5, 3, 2, 17))

	summary, err := repo.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CursoSummary{TotalCursos: 5, CiclosActivos: 3, DocentesAsignados: 2, TotalCreditos: 17}, *summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
