package router

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/dto"
	"github.com/noah-isme/academic-records-api/internal/handler"
	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/service"
	"github.com/noah-isme/academic-records-api/pkg/config"
)

const validID = "550e8400-e29b-41d4-a716-446655440010"

type fakeCursoRepo struct{}

func (fakeCursoRepo) List(ctx context.Context, filter models.CursoFilter) ([]models.CursoWithDocente, error) {
	return []models.CursoWithDocente{}, nil
}

func (fakeCursoRepo) FindByID(ctx context.Context, id string) (*models.CursoWithDocente, error) {
	if id == validID {
		panic("unexpected store state")
	}
	return nil, sql.ErrNoRows
}

func (fakeCursoRepo) FindCursoByID(ctx context.Context, id string) (*models.Curso, error) {
	return nil, sql.ErrNoRows
}

func (fakeCursoRepo) Create(ctx context.Context, curso *models.Curso) error { return nil }

func (fakeCursoRepo) Update(ctx context.Context, curso *models.Curso) error { return nil }

func (fakeCursoRepo) Delete(ctx context.Context, id string) (int64, error) { return 0, nil }

func (fakeCursoRepo) Summary(ctx context.Context) (*models.CursoSummary, error) {
	return &models.CursoSummary{}, nil
}

type fakeDocenteRepo struct{}

func (fakeDocenteRepo) List(ctx context.Context) ([]models.Docente, error) {
	return []models.Docente{}, nil
}

func (fakeDocenteRepo) ExistsByID(ctx context.Context, id string) (bool, error) { return false, nil }

func newTestEngine(env string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: env, APIPrefix: "/api", BodyLimitBytes: 1 << 20, CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}}}
	v := dto.NewCursoValidator()
	metrics := service.NewMetricsService()
	cursos := service.NewCursoService(fakeCursoRepo{}, fakeDocenteRepo{}, v, nil, metrics, zap.NewNop())
	docentes := service.NewDocenteService(fakeDocenteRepo{}, nil, metrics, zap.NewNop())
	exports := service.NewExportService(cursos, v, zap.NewNop(), nil, nil)

	return New(Deps{
		Config:    cfg,
		Logger:    zap.NewNop(),
		Validator: v,
		Metrics:   metrics,
		Cursos:    handler.NewCursoHandler(cursos, exports, v),
		Docentes:  handler.NewDocenteHandler(docentes),
		System:    handler.NewSystemHandler(cfg.APIPrefix, nil, metrics),
	})
}

func serve(r http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRouterUnknownRoute(t *testing.T) {
	w := serve(newTestEngine(config.EnvDevelopment), http.MethodGet, "/api/nada", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Ruta no encontrada"}`, w.Body.String())
}

func TestRouterPanicBecomesEnvelope(t *testing.T) {
	w := serve(newTestEngine(config.EnvDevelopment), http.MethodGet, "/api/cursos/"+validID, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Error interno del servidor"}`, w.Body.String())
}

func TestRouterCursoRoutes(t *testing.T) {
	r := newTestEngine(config.EnvDevelopment)
	cases := []struct {
		method, target, body string
		status               int
		fragment             string
	}{
		{http.MethodGet, "/api/cursos", "", http.StatusOK, `"message":"Cursos obtenidos exitosamente"`},
		{http.MethodGet, "/api/cursos/summary", "", http.StatusOK, `"total_cursos":0`},
		{http.MethodGet, "/api/cursos/ciclo/3", "", http.StatusOK, `Cursos del ciclo 3 obtenidos exitosamente`},
		{http.MethodGet, "/api/cursos/ciclo/abc", "", http.StatusBadRequest, `"success":false`},
		{http.MethodGet, "/api/cursos/not-a-uuid", "", http.StatusBadRequest, `UUID`},
		{http.MethodGet, "/api/cursos/550e8400-e29b-41d4-a716-446655440099", "", http.StatusNotFound, `Curso no encontrado`},
		{http.MethodPut, "/api/cursos/550e8400-e29b-41d4-a716-446655440099", `{"ciclo":2}`, http.StatusNotFound, `Curso no encontrado`},
		{http.MethodDelete, "/api/cursos/550e8400-e29b-41d4-a716-446655440099", "", http.StatusOK, `Curso eliminado exitosamente`},
		{http.MethodPost, "/api/cursos", `{"curso":"Álgebra","creditos":4,"hora_semanal":6,"ciclo":1,"id_docente":"550e8400-e29b-41d4-a716-446655440001"}`, http.StatusBadRequest, `El docente especificado no existe`},
		{http.MethodGet, "/api/cursos/export?format=csv", "", http.StatusOK, `Curso,`},
		{http.MethodGet, "/api/cursos/export?format=doc", "", http.StatusBadRequest, `csv o pdf`},
		{http.MethodGet, "/api/docentes", "", http.StatusOK, `"data":[]`},
	}
	for _, tc := range cases {
		w := serve(r, tc.method, tc.target, tc.body)
		assert.Equal(t, tc.status, w.Code, "%s %s", tc.method, tc.target)
		assert.Contains(t, w.Body.String(), tc.fragment, "%s %s", tc.method, tc.target)
	}
}

func TestRouterSystemRoutes(t *testing.T) {
	r := newTestEngine(config.EnvDevelopment)
	for _, path := range []string{"/", "/health", "/ready", "/metrics"} {
		w := serve(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	w := serve(r, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRouterDocsHiddenInProduction(t *testing.T) {
	w := serve(newTestEngine(config.EnvProduction), http.MethodGet, "/docs/index.html", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	r := newTestEngine(config.EnvDevelopment)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/cursos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
