package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-api/api/swagger"
	"github.com/noah-isme/school-api/internal/handler"
	"github.com/noah-isme/school-api/internal/middleware"
	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/repository"
	"github.com/noah-isme/school-api/internal/service"
	"github.com/noah-isme/school-api/pkg/config"
	"github.com/noah-isme/school-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-api/pkg/middleware/requestid"
)

type application struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *sqlx.DB
	cache   *repository.CacheRepository
	metrics *service.MetricsService

	users       *service.UserService
	teachers    *service.TeacherService
	students    *service.StudentService
	courses     *service.CourseService
	enrollments *service.EnrollmentService
	fees        *service.FeeService
	auth        *service.AuthService
	exports     *service.ExportService
}

func (app *application) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(app.logger))
	r.Use(corsmiddleware.New(app.cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(app.metrics))

	var pinger handler.Pinger
	if app.db != nil {
		pinger = app.db
	}
	ops := handler.NewMetricsHandler(app.metrics, pinger, app.logger)
	if app.cache != nil {
		ops.AddCheck("redis", app.cache, false)
	}
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if app.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(app.cfg.APIPrefix)
	api.POST("/auth/login", handler.NewAuthHandler(app.auth).Login)

	var guard, adminOnly []gin.HandlerFunc
	if app.cfg.Auth.Required {
		guard = []gin.HandlerFunc{middleware.JWTOnWrites(app.auth)}
		adminOnly = []gin.HandlerFunc{
			middleware.JWTOnWrites(app.auth),
			middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin),
		}
	}

	api.GET("/students/export", handler.NewExportHandler(app.exports).Students)

	handler.NewUserHandler(app.users).Register(api, "/users", adminOnly...)
	handler.NewTeacherHandler(app.teachers).Register(api, "/teachers", guard...)
	handler.NewStudentHandler(app.students).Register(api, "/students", guard...)
	handler.NewCourseHandler(app.courses).Register(api, "/courses", guard...)
	handler.NewEnrollmentHandler(app.enrollments).Register(api, "/enrollments", guard...)
	handler.NewFeeHandler(app.fees).Register(api, "/fees", guard...)

	return r
}
