package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/dto"
	"github.com/noah-isme/academic-records-api/pkg/response"
	"github.com/noah-isme/academic-records-api/pkg/validation"
)

// Context keys holding validated path parameters.
const (
	ContextCursoIDKey = "curso_id"
	ContextCicloKey   = "ciclo"
)

// ValidateCursoID rejects requests whose :id is not a UUID.
func ValidateCursoID(v *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := v.Struct(dto.CursoIDParams{ID: id}); err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(ContextCursoIDKey, strings.ToLower(id))
		c.Next()
	}
}

// ValidateCiclo coerces :ciclo to an integer and checks its range.
func ValidateCiclo(v *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ciclo, err := v.CoerceInt("ciclo", c.Param("ciclo"))
		if err == nil {
			err = v.Struct(dto.CicloParams{Ciclo: ciclo})
		}
		if err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(ContextCicloKey, *ciclo)
		c.Next()
	}
}

// CursoID returns the validated :id, falling back to the raw parameter.
func CursoID(c *gin.Context) string {
	if id := c.GetString(ContextCursoIDKey); id != "" {
		return id
	}
	return c.Param("id")
}

// Ciclo returns the validated :ciclo, or 0 when absent.
func Ciclo(c *gin.Context) int {
	return c.GetInt(ContextCicloKey)
}
