package client

import (
	"strings"

	"github.com/noah-isme/academic-records-api/internal/models"
)

// Stats mirrors the dashboard counters computed over a loaded list.
type Stats struct {
	TotalCursos       int
	CiclosActivos     int
	DocentesAsignados int
	TotalCreditos     int
}

// FilterCursos keeps cursos whose name or docente apellidos/nombres contain
// search (case-insensitive) and, when ciclo > 0, that belong to ciclo. The
// input order is preserved.
func FilterCursos(cursos []models.CursoWithDocente, search string, ciclo int) []models.CursoWithDocente {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.CursoWithDocente, 0, len(cursos))
	for _, c := range cursos {
		if ciclo > 0 && c.Ciclo != ciclo {
			continue
		}
		if term != "" && !matches(c, term) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matches(c models.CursoWithDocente, term string) bool {
	if strings.Contains(strings.ToLower(c.Curso.Curso), term) {
		return true
	}
	if c.Docente == nil {
		return false
	}
	return strings.Contains(strings.ToLower(c.Docente.Apellidos), term) ||
		strings.Contains(strings.ToLower(c.Docente.Nombres), term)
}

// ComputeStats aggregates cursos the same way the summary endpoint does.
func ComputeStats(cursos []models.CursoWithDocente) Stats {
	ciclos := map[int]struct{}{}
	docentes := map[string]struct{}{}
	var stats Stats
	for _, c := range cursos {
		stats.TotalCursos++
		stats.TotalCreditos += c.Creditos
		ciclos[c.Ciclo] = struct{}{}
		docentes[c.IDDocente] = struct{}{}
	}
	stats.CiclosActivos = len(ciclos)
	stats.DocentesAsignados = len(docentes)
	return stats
}
