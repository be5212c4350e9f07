package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academic-records-api/api/swagger"
	"github.com/noah-isme/academic-records-api/internal/dto"
	"github.com/noah-isme/academic-records-api/internal/handler"
	"github.com/noah-isme/academic-records-api/internal/repository"
	"github.com/noah-isme/academic-records-api/internal/router"
	"github.com/noah-isme/academic-records-api/internal/service"
	"github.com/noah-isme/academic-records-api/pkg/cache"
	"github.com/noah-isme/academic-records-api/pkg/config"
	"github.com/noah-isme/academic-records-api/pkg/database"
	"github.com/noah-isme/academic-records-api/pkg/logger"
)

// @title API de Gestión Académica
// @version 1.0.0
// @description Cursos y docentes del Instituto Tecnológico San Juan
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrations, err := database.Migrations()
		if err != nil {
			logr.Fatal("load migrations", zap.Error(err))
		}
		migrator := database.NewMigrator(db, logr)
		applied, err := migrator.Up(ctx, migrations)
		if err != nil {
			logr.Fatal("apply migrations", zap.Error(err))
		}
		logr.Info("migrations up to date", zap.Int("applied", applied))
		if cfg.Database.SeedSample {
			if err := migrator.SeedSample(ctx); err != nil {
				logr.Fatal("seed sample data", zap.Error(err))
			}
		}
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	validator := dto.NewCursoValidator()
	cursoRepo := repository.NewCursoRepository(db)
	docenteRepo := repository.NewDocenteRepository(db)

	cursoSvc := service.NewCursoService(cursoRepo, docenteRepo, validator, cacheSvc, metrics, logr)
	docenteSvc := service.NewDocenteService(docenteRepo, cacheSvc, metrics, logr)
	exportSvc := service.NewExportService(cursoSvc, validator, logr, nil, nil)

	engine := router.New(router.Deps{
		Config:    cfg,
		Logger:    logr,
		Validator: validator,
		Metrics:   metrics,
		Cursos:    handler.NewCursoHandler(cursoSvc, exportSvc, validator),
		Docentes:  handler.NewDocenteHandler(docenteSvc),
		System:    handler.NewSystemHandler(cfg.APIPrefix, db, metrics),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("api_prefix", cfg.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
