package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/dto"
	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

const (
	docenteA = "550e8400-e29b-41d4-a716-446655440001"
	docenteB = "550e8400-e29b-41d4-a716-446655440002"
	missing  = "550e8400-e29b-41d4-a716-4466554400ff"
)

type mockCursoRepo struct {
	items     map[string]models.Curso
	docentes  map[string]models.Docente
	seq       int
	writes    int
	listCalls int
	createErr error
	listErr   error
}

func newMockCursoRepo() *mockCursoRepo {
	return &mockCursoRepo{
		items: map[string]models.Curso{},
		docentes: map[string]models.Docente{
			docenteA: {ID: docenteA, Apellidos: "García", Nombres: "Ana"},
			docenteB: {ID: docenteB, Apellidos: "Alva", Nombres: "Luis"},
		},
	}
}

func (m *mockCursoRepo) join(c models.Curso) models.CursoWithDocente {
	out := models.CursoWithDocente{Curso: c}
	if d, ok := m.docentes[c.IDDocente]; ok {
		out.Docente = &d
	}
	return out
}

func (m *mockCursoRepo) List(ctx context.Context, filter models.CursoFilter) ([]models.CursoWithDocente, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []models.CursoWithDocente{}
	for _, c := range m.items {
		if filter.Ciclo > 0 && c.Ciclo != filter.Ciclo {
			continue
		}
		out = append(out, m.join(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ciclo != out[j].Ciclo {
			return out[i].Ciclo < out[j].Ciclo
		}
		return out[i].Curso.Curso < out[j].Curso.Curso
	})
	return out, nil
}

func (m *mockCursoRepo) FindByID(ctx context.Context, id string) (*models.CursoWithDocente, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	joined := m.join(c)
	return &joined, nil
}

func (m *mockCursoRepo) FindCursoByID(ctx context.Context, id string) (*models.Curso, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m *mockCursoRepo) Create(ctx context.Context, curso *models.Curso) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	m.writes++
	curso.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", m.seq)
	curso.CreatedAt = time.Now()
	curso.UpdatedAt = curso.CreatedAt
	m.items[curso.ID] = *curso
	return nil
}

func (m *mockCursoRepo) Update(ctx context.Context, curso *models.Curso) error {
	if _, ok := m.items[curso.ID]; !ok {
		return sql.ErrNoRows
	}
	m.writes++
	m.items[curso.ID] = *curso
	return nil
}

func (m *mockCursoRepo) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := m.items[id]; !ok {
		return 0, nil
	}
	delete(m.items, id)
	return 1, nil
}

func (m *mockCursoRepo) Summary(ctx context.Context) (*models.CursoSummary, error) {
	ciclos := map[int]struct{}{}
	docentes := map[string]struct{}{}
	summary := &models.CursoSummary{}
	for _, c := range m.items {
		summary.TotalCursos++
		summary.TotalCreditos += c.Creditos
		ciclos[c.Ciclo] = struct{}{}
		docentes[c.IDDocente] = struct{}{}
	}
	summary.CiclosActivos = len(ciclos)
	summary.DocentesAsignados = len(docentes)
	return summary, nil
}

type mockDocenteLookup struct {
	repo  *mockCursoRepo
	calls int
	err   error
}

func (m *mockDocenteLookup) ExistsByID(ctx context.Context, id string) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.repo.docentes[id]
	return ok, nil
}

func newCursoServiceUnderTest() (*CursoService, *mockCursoRepo, *mockDocenteLookup) {
	repo := newMockCursoRepo()
	lookup := &mockDocenteLookup{repo: repo}
	return NewCursoService(repo, lookup, nil, nil, nil, zap.NewNop()), repo, lookup
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func createReq(name string, ciclo int, docente string) dto.CreateCursoRequest {
	return dto.CreateCursoRequest{Curso: name, Creditos: intPtr(4), HoraSemanal: intPtr(6), Ciclo: intPtr(ciclo), IDDocente: docente}
}

func assertAppError(t *testing.T, err error, target *appErrors.Error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, target), "expected %s, got %v", target.Code, err)
	assert.Equal(t, message, appErrors.FromError(err).Message)
}

func TestCursoServiceCreateRejectsCreditosOutOfRange(t *testing.T) {
	svc, repo, _ := newCursoServiceUnderTest()
	for _, creditos := range []int{0, -3, 11, 100} {
		req := createReq("Álgebra", 1, docenteA)
		req.Creditos = intPtr(creditos)
		_, err := svc.Create(context.Background(), req)
		assert.True(t, errors.Is(err, appErrors.ErrValidation), "creditos=%d", creditos)
	}
	assert.Zero(t, repo.writes)
}

func TestCursoServiceCreateUnknownDocente(t *testing.T) {
	svc, repo, _ := newCursoServiceUnderTest()
	_, err := svc.Create(context.Background(), createReq("Álgebra", 1, missing))
	assertAppError(t, err, appErrors.ErrInvalidReference, "El docente especificado no existe")
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Zero(t, repo.writes)
}

func TestCursoServiceCreateForeignKeyRace(t *testing.T) {
	svc, repo, _ := newCursoServiceUnderTest()
	repo.createErr = fmt.Errorf("create curso: %w", &pq.Error{Code: "23503", Constraint: "cursos_id_docente_fkey"})

	_, err := svc.Create(context.Background(), createReq("Álgebra", 1, docenteA))
	assertAppError(t, err, appErrors.ErrInvalidReference, "El docente especificado no existe")
}

func TestCursoServiceCreateCheckViolation(t *testing.T) {
	svc, repo, _ := newCursoServiceUnderTest()
	repo.createErr = fmt.Errorf("create curso: %w", &pq.Error{Code: "23514", Constraint: "cursos_creditos_check"})

	_, err := svc.Create(context.Background(), createReq("Álgebra", 1, docenteA))
	assertAppError(t, err, appErrors.ErrValidation, "El curso no cumple las restricciones de datos")
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestCursoServiceForeignKeyOnOtherConstraintIsInternal(t *testing.T) {
	svc, repo, _ := newCursoServiceUnderTest()
	repo.createErr = &pq.Error{Code: "23503", Constraint: "cursos_otro_fkey"}

	_, err := svc.Create(context.Background(), createReq("Álgebra", 1, docenteA))
	assertAppError(t, err, appErrors.ErrInternal, "Error al crear curso")
}

func TestCursoServiceRejectsNamesShortAfterTrimming(t *testing.T) {
	svc, repo, _ := newCursoServiceUnderTest()
	ctx := context.Background()
	const tooShort = "El nombre del curso debe tener al menos 3 caracteres"

	_, err := svc.Create(ctx, createReq("  ab  ", 1, docenteA))
	assertAppError(t, err, appErrors.ErrValidation, tooShort)
	_, err = svc.Create(ctx, createReq("     ", 1, docenteA))
	assertAppError(t, err, appErrors.ErrValidation, "El nombre del curso es requerido")
	assert.Zero(t, repo.writes)

	created, err := svc.Create(ctx, createReq("Álgebra", 1, docenteA))
	require.NoError(t, err)
	writes := repo.writes

	for _, name := range []string{"     ", "  ab  "} {
		_, err = svc.Update(ctx, created.ID, dto.UpdateCursoRequest{Curso: strPtr(name)})
		assertAppError(t, err, appErrors.ErrValidation, tooShort)
	}
	assert.Equal(t, writes, repo.writes)
	assert.Equal(t, "Álgebra", repo.items[created.ID].Curso)
}

func TestCursoServiceCreateAssignsNovelIDs(t *testing.T) {
	svc, _, _ := newCursoServiceUnderTest()
	ctx := context.Background()

	first, err := svc.Create(ctx, createReq("  Álgebra  ", 1, strings.ToUpper(docenteA)))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createReq("Física", 2, docenteB))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Álgebra", first.Curso)
	assert.Equal(t, docenteA, first.IDDocente)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, *first, got.Curso)
	require.NotNil(t, got.Docente)
	assert.Equal(t, "García", got.Docente.Apellidos)
}

func TestCursoServiceGetNotFound(t *testing.T) {
	svc, _, _ := newCursoServiceUnderTest()
	_, err := svc.Get(context.Background(), missing)
	assertAppError(t, err, appErrors.ErrNotFound, "Curso no encontrado")
}

func TestCursoServiceUpdateEmptyPayloadIsNoop(t *testing.T) {
	svc, repo, _ := newCursoServiceUnderTest()
	ctx := context.Background()
	created, err := svc.Create(ctx, createReq("Álgebra", 1, docenteA))
	require.NoError(t, err)
	writes := repo.writes

	updated, err := svc.Update(ctx, created.ID, dto.UpdateCursoRequest{})
	require.NoError(t, err)
	assert.Equal(t, *created, *updated)
	assert.Equal(t, writes, repo.writes)
}

func TestCursoServiceUpdateUnknownDocenteLeavesRowUnchanged(t *testing.T) {
	svc, repo, _ := newCursoServiceUnderTest()
	ctx := context.Background()
	created, err := svc.Create(ctx, createReq("Álgebra", 1, docenteA))
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, dto.UpdateCursoRequest{Ciclo: intPtr(3), IDDocente: strPtr(missing)})
	assertAppError(t, err, appErrors.ErrInvalidReference, "El docente especificado no existe")
	stored := repo.items[created.ID]
	assert.Equal(t, docenteA, stored.IDDocente)
	assert.Equal(t, 1, stored.Ciclo)
}

func TestCursoServiceUpdateChecksExistenceBeforeReference(t *testing.T) {
	svc, _, lookup := newCursoServiceUnderTest()
	_, err := svc.Update(context.Background(), missing, dto.UpdateCursoRequest{IDDocente: strPtr(missing)})
	assertAppError(t, err, appErrors.ErrNotFound, "Curso no encontrado")
	assert.Zero(t, lookup.calls)
}

func TestCursoServiceRoundTripChangesOnlyCiclo(t *testing.T) {
	svc, _, _ := newCursoServiceUnderTest()
	ctx := context.Background()
	created, err := svc.Create(ctx, createReq("Álgebra", 1, docenteA))
	require.NoError(t, err)

	before, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	_, err = svc.Update(ctx, created.ID, dto.UpdateCursoRequest{Ciclo: intPtr(5)})
	require.NoError(t, err)
	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, after.Ciclo)
	assert.Equal(t, before.Curso.Curso, after.Curso.Curso)
	assert.Equal(t, before.Creditos, after.Creditos)
	assert.Equal(t, before.HoraSemanal, after.HoraSemanal)
	assert.Equal(t, before.IDDocente, after.IDDocente)
}

func TestCursoServiceListOrdering(t *testing.T) {
	svc, _, _ := newCursoServiceUnderTest()
	ctx := context.Background()
	for _, c := range []struct {
		name  string
		ciclo int
	}{{"Zoología", 2}, {"Biología", 1}, {"Anatomía", 1}} {
		_, err := svc.Create(ctx, createReq(c.name, c.ciclo, docenteA))
		require.NoError(t, err)
	}

	list, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Anatomía", "Biología", "Zoología"}, []string{list[0].Curso.Curso, list[1].Curso.Curso, list[2].Curso.Curso})
}

func TestCursoServiceListByCiclo(t *testing.T) {
	svc, _, _ := newCursoServiceUnderTest()
	ctx := context.Background()
	for _, c := range []struct {
		name  string
		ciclo int
	}{{"Química", 5}, {"Cálculo", 5}, {"Historia", 4}} {
		_, err := svc.Create(ctx, createReq(c.name, c.ciclo, docenteB))
		require.NoError(t, err)
	}

	list, err := svc.ListByCiclo(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cálculo", list[0].Curso.Curso)
	assert.Equal(t, "Química", list[1].Curso.Curso)

	_, err = svc.ListByCiclo(ctx, 11)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCursoServiceDeleteMissingSucceeds(t *testing.T) {
	svc, _, _ := newCursoServiceUnderTest()
	assert.NoError(t, svc.Delete(context.Background(), missing))
}

func TestCursoServiceStoreFailureIsGeneric(t *testing.T) {
	svc, repo, _ := newCursoServiceUnderTest()
	repo.listErr = errors.New("dial tcp: connection refused")

	_, err := svc.ListAll(context.Background())
	assertAppError(t, err, appErrors.ErrInternal, "Error al obtener cursos")
	assert.NotContains(t, appErrors.FromError(err).Message, "connection refused")
}

func TestCursoServiceSummary(t *testing.T) {
	svc, _, _ := newCursoServiceUnderTest()
	ctx := context.Background()
	_, err := svc.Create(ctx, createReq("Álgebra", 1, docenteA))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createReq("Física", 2, docenteB))
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.CursoSummary{TotalCursos: 2, CiclosActivos: 2, DocentesAsignados: 2, TotalCreditos: 8}, *summary)
}

func TestCursoServiceCacheReadThroughAndInvalidation(t *testing.T) {
	repo := newMockCursoRepo()
	cache := NewCacheService(newMemoryCache(), NewMetricsService(), time.Minute, zap.NewNop(), true)
	svc := NewCursoService(repo, &mockDocenteLookup{repo: repo}, nil, cache, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.ListAll(ctx)
	require.NoError(t, err)
	_, err = svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Create(ctx, createReq("Álgebra", 1, docenteA))
	require.NoError(t, err)
	list, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, repo.listCalls)
}
