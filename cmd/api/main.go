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

	"github.com/noah-isme/school-api/internal/repository"
	"github.com/noah-isme/school-api/internal/service"
	"github.com/noah-isme/school-api/pkg/cache"
	"github.com/noah-isme/school-api/pkg/config"
	"github.com/noah-isme/school-api/pkg/database"
	"github.com/noah-isme/school-api/pkg/logger"
)

// @title School API
// @version 1.0.0
// @description CRUD API for users, teachers, students, courses, enrollments and fees
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
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
	}

	metrics := service.NewMetricsService()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		}
	}
	var (
		cacheRepo *repository.CacheRepository
		cacheSvc  *service.CacheService
	)
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient)
		defer cacheRepo.Close()
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, cfg.Cache.Prefix, logr, true)
	}

	deps := service.Dependencies{Validator: service.NewValidator(), Logger: logr, Cache: cacheSvc, Metrics: metrics}

	users := repository.NewUserRepository(db)
	teachers := repository.NewTeacherRepository(db)
	students := repository.NewStudentRepository(db)
	courses := repository.NewCourseRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	fees := repository.NewFeeRepository(db)
	type observable interface {
		SetObserver(observer repository.QueryObserver)
	}
	for _, repo := range []observable{users, teachers, students, courses, enrollments, fees} {
		repo.SetObserver(metrics)
	}

	studentSvc := service.NewStudentService(students, deps)
	app := application{
		cfg:         cfg,
		logger:      logr,
		db:          db,
		cache:       cacheRepo,
		metrics:     metrics,
		users:       service.NewUserService(users, deps),
		teachers:    service.NewTeacherService(teachers, deps),
		students:    studentSvc,
		courses:     service.NewCourseService(courses, deps),
		enrollments: service.NewEnrollmentService(enrollments, deps),
		fees:        service.NewFeeService(fees, deps),
		auth: service.NewAuthService(users, deps.Validator, logr, service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		}),
		exports: service.NewExportService(students, logr, nil, nil),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "auth_required", cfg.Auth.Required, "cache", cacheSvc.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
