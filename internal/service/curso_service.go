package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/dto"
	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/repository"
	"github.com/noah-isme/academic-records-api/pkg/database"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
	"github.com/noah-isme/academic-records-api/pkg/validation"
)

const (
	cursoCachePattern  = "cursos:*"
	cursoCacheAll      = "cursos:all"
	cursoCacheSummary  = "cursos:summary"
	cursoCacheCicloFmt = "cursos:ciclo:%d"

	msgCursoNotFound    = "Curso no encontrado"
	msgDocenteNotExists = "El docente especificado no existe"
)

type cursoRepository interface {
	List(ctx context.Context, filter models.CursoFilter) ([]models.CursoWithDocente, error)
	FindByID(ctx context.Context, id string) (*models.CursoWithDocente, error)
	FindCursoByID(ctx context.Context, id string) (*models.Curso, error)
	Create(ctx context.Context, curso *models.Curso) error
	Update(ctx context.Context, curso *models.Curso) error
	Delete(ctx context.Context, id string) (int64, error)
	Summary(ctx context.Context) (*models.CursoSummary, error)
}

type docenteLookup interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// CursoService implements the course use cases. It holds no per-request
// state and is shared across handlers.
type CursoService struct {
	repo      cursoRepository
	docentes  docenteLookup
	validator *validation.Validator
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewCursoService constructs a CursoService. cache and metrics may be nil.
func NewCursoService(repo cursoRepository, docentes docenteLookup, validate *validation.Validator, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *CursoService {
	if validate == nil {
		validate = dto.NewCursoValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CursoService{repo: repo, docentes: docentes, validator: validate, cache: cache, metrics: metrics, logger: logger}
}

// ListAll returns every curso with its docente, ordered by ciclo then name.
func (s *CursoService) ListAll(ctx context.Context) ([]models.CursoWithDocente, error) {
	return s.list(ctx, models.CursoFilter{}, cursoCacheAll, "Error al obtener cursos")
}

// ListByCiclo returns the cursos of one ciclo ordered by name.
func (s *CursoService) ListByCiclo(ctx context.Context, ciclo int) ([]models.CursoWithDocente, error) {
	if err := s.validator.Struct(dto.CicloParams{Ciclo: &ciclo}); err != nil {
		return nil, err
	}
	return s.list(ctx, models.CursoFilter{Ciclo: ciclo}, fmt.Sprintf(cursoCacheCicloFmt, ciclo), "Error al obtener cursos por ciclo")
}

func (s *CursoService) list(ctx context.Context, filter models.CursoFilter, cacheKey, failMsg string) ([]models.CursoWithDocente, error) {
	var cursos []models.CursoWithDocente
	err := s.cache.Remember(ctx, cacheKey, &cursos, func(ctx context.Context) error {
		start := time.Now()
		var err error
		cursos, err = s.repo.List(ctx, filter)
		s.metrics.ObserveDBQuery("cursos_list", time.Since(start), err)
		return err
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failMsg)
	}
	return cursos, nil
}

// Get returns the joined curso for id.
func (s *CursoService) Get(ctx context.Context, id string) (*models.CursoWithDocente, error) {
	if err := s.validator.Struct(dto.CursoIDParams{ID: id}); err != nil {
		return nil, err
	}
	start := time.Now()
	curso, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveDBQuery("cursos_get", time.Since(start), ignoreNoRows(err))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgCursoNotFound)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener curso")
	}
	return curso, nil
}

// Create registers a curso after confirming its docente exists.
func (s *CursoService) Create(ctx context.Context, req dto.CreateCursoRequest) (*models.Curso, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}
	curso := req.ToCurso()
	if err := s.ensureDocente(ctx, curso.IDDocente); err != nil {
		return nil, err
	}

	start := time.Now()
	err := s.repo.Create(ctx, curso)
	s.metrics.ObserveDBQuery("cursos_create", time.Since(start), err)
	if err != nil {
		return nil, s.writeError(err, "Error al crear curso")
	}
	s.invalidate(ctx)
	s.logger.Info("curso created", zap.String("id", curso.ID), zap.String("id_docente", curso.IDDocente))
	return curso, nil
}

// Update applies the supplied fields to an existing curso. The curso must
// exist before the docente reference is checked; an empty request returns
// the stored curso without writing.
func (s *CursoService) Update(ctx context.Context, id string, req dto.UpdateCursoRequest) (*models.Curso, error) {
	if err := s.validator.Struct(dto.CursoIDParams{ID: id}); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	curso, err := s.repo.FindCursoByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgCursoNotFound)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener curso")
	}

	patch := req.ToPatch()
	if patch.Empty() {
		return curso, nil
	}
	if patch.IDDocente != nil {
		if err := s.ensureDocente(ctx, *patch.IDDocente); err != nil {
			return nil, err
		}
	}

	patch.Apply(curso)
	start := time.Now()
	err = s.repo.Update(ctx, curso)
	s.metrics.ObserveDBQuery("cursos_update", time.Since(start), ignoreNoRows(err))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgCursoNotFound)
		}
		return nil, s.writeError(err, "Error al actualizar curso")
	}
	s.invalidate(ctx)
	return curso, nil
}

// Delete removes a curso by id. Removing an id that does not exist is not an
// error.
func (s *CursoService) Delete(ctx context.Context, id string) error {
	if err := s.validator.Struct(dto.CursoIDParams{ID: id}); err != nil {
		return err
	}
	start := time.Now()
	affected, err := s.repo.Delete(ctx, id)
	s.metrics.ObserveDBQuery("cursos_delete", time.Since(start), err)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar curso")
	}
	if affected == 0 {
		s.logger.Debug("delete matched no curso", zap.String("id", id))
	}
	s.invalidate(ctx)
	return nil
}

// Summary returns the aggregate course counters.
func (s *CursoService) Summary(ctx context.Context) (*models.CursoSummary, error) {
	summary := &models.CursoSummary{}
	err := s.cache.Remember(ctx, cursoCacheSummary, summary, func(ctx context.Context) error {
		start := time.Now()
		loaded, err := s.repo.Summary(ctx)
		s.metrics.ObserveDBQuery("cursos_summary", time.Since(start), err)
		if err != nil {
			return err
		}
		*summary = *loaded
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener el resumen de cursos")
	}
	return summary, nil
}

func (s *CursoService) ensureDocente(ctx context.Context, id string) error {
	start := time.Now()
	exists, err := s.docentes.ExistsByID(ctx, id)
	s.metrics.ObserveDBQuery("docentes_exists", time.Since(start), err)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al verificar el docente")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrInvalidReference, msgDocenteNotExists)
	}
	return nil
}

// writeError maps a failed insert or update. The docente may disappear
// between the existence check and the write, which the store reports as a
// foreign key violation.
func (s *CursoService) writeError(err error, msg string) error {
	if database.IsForeignKeyViolation(err, repository.ConstraintCursoDocente) {
		return appErrors.Wrap(err, appErrors.ErrInvalidReference.Code, appErrors.ErrInvalidReference.Status, msgDocenteNotExists)
	}
	if database.IsCheckViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "El curso no cumple las restricciones de datos")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msg)
}

func (s *CursoService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, cursoCachePattern)
}

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
