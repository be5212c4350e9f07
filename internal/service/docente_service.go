package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

const docenteCacheAll = "docentes:all"

type docenteRepository interface {
	List(ctx context.Context) ([]models.Docente, error)
}

// DocenteService exposes read access to docentes.
type DocenteService struct {
	repo    docenteRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewDocenteService constructs a DocenteService. cache and metrics may be nil.
func NewDocenteService(repo docenteRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *DocenteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocenteService{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// List returns all docentes ordered by apellidos.
func (s *DocenteService) List(ctx context.Context) ([]models.Docente, error) {
	var docentes []models.Docente
	err := s.cache.Remember(ctx, docenteCacheAll, &docentes, func(ctx context.Context) error {
		start := time.Now()
		var err error
		docentes, err = s.repo.List(ctx)
		s.metrics.ObserveDBQuery("docentes_list", time.Since(start), err)
		return err
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener docentes")
	}
	return docentes, nil
}
