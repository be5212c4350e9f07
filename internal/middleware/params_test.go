package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-records-api/internal/dto"
	"github.com/noah-isme/academic-records-api/pkg/response"
)

func paramsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	v := dto.NewCursoValidator()
	r := gin.New()
	r.GET("/cursos/:id", ValidateCursoID(v), func(c *gin.Context) {
		c.String(http.StatusOK, CursoID(c))
	})
	r.GET("/cursos/ciclo/:ciclo", ValidateCiclo(v), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ciclo": Ciclo(c)})
	})
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestValidateCursoID(t *testing.T) {
	r := paramsRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cursos/550E8400-E29B-41D4-A716-446655440000", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cursos/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "El ID del curso debe ser un UUID válido", env.Error)
}

func TestValidateCiclo(t *testing.T) {
	r := paramsRouter()
	cases := []struct {
		raw    string
		status int
		errMsg string
	}{
		{"5", http.StatusOK, ""},
		{"0", http.StatusBadRequest, "El ciclo debe ser al menos 1"},
		{"11", http.StatusBadRequest, "El ciclo no puede exceder 10"},
		{"abc", http.StatusBadRequest, "El ciclo debe ser un número"},
		{"2.5", http.StatusBadRequest, "El ciclo debe ser un número entero"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cursos/ciclo/"+tc.raw, nil))
		require.Equal(t, tc.status, w.Code, tc.raw)
		if tc.errMsg != "" {
			assert.Equal(t, tc.errMsg, decodeEnvelope(t, w).Error, tc.raw)
		} else {
			assert.True(t, strings.Contains(w.Body.String(), `"ciclo":5`))
		}
	}
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/echo", BodyLimit(8), func(c *gin.Context) {
		var payload map[string]interface{}
		if err := dto.NewCursoValidator().DecodeJSON(c.Request.Body, &payload); err != nil {
			response.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"curso":"a very long value"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
