package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	appControllers "github.com/campora/campora/internal/app/controllers"
	appMigrations "github.com/campora/campora/internal/app/migrations"
	appRepos "github.com/campora/campora/internal/app/repositories"
	appRoutes "github.com/campora/campora/internal/app/routes"
	appServices "github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/cache"
	"github.com/campora/campora/internal/config"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/jobs"
	appMiddleware "github.com/campora/campora/internal/middleware"
	pkgAuth "github.com/campora/campora/internal/pkg/auth"
	"github.com/campora/campora/internal/pkg/email"
	"github.com/campora/campora/internal/pkg/logger"
	"github.com/campora/campora/internal/pkg/sms"
	"github.com/campora/campora/internal/pkg/validation"
	"github.com/campora/campora/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos *appRepos.Repositories
	Cache cache.Store

	JWTService          *pkgAuth.JWTService
	AuthService         *appServices.AuthService
	TenantService       *appServices.TenantService
	AdmissionService    *appServices.AdmissionService
	AcademicService     *appServices.AcademicService
	StudentService      *appServices.StudentService
	CourseService       *appServices.CourseService
	EnrollmentService   *appServices.EnrollmentService
	GradeService        *appServices.GradeService
	ScheduleService     *appServices.ScheduleService
	AttendanceService   *appServices.AttendanceService
	FinanceService      *appServices.FinanceService
	PayrollService      *appServices.PayrollService
	NotificationService *appServices.NotificationService
	LibraryService      *appServices.LibraryService
	HRService           *appServices.HRService

	AuthController         *appControllers.AuthController
	TenantController       *appControllers.TenantController
	AdmissionController    *appControllers.AdmissionController
	AcademicController     *appControllers.AcademicController
	StudentController      *appControllers.StudentController
	CourseController       *appControllers.CourseController
	EnrollmentController   *appControllers.EnrollmentController
	GradeController        *appControllers.GradeController
	ScheduleController     *appControllers.ScheduleController
	AttendanceController   *appControllers.AttendanceController
	FinanceController      *appControllers.FinanceController
	PayrollController      *appControllers.PayrollController
	NotificationController *appControllers.NotificationController
	LibraryController      *appControllers.LibraryController
	HRController           *appControllers.HRController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Scheduler      *jobs.Scheduler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds
// the default tenant.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Cache = setupCache(cfg, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  cfg.AccessTokenExp(),
		RefreshTokenExp: cfg.RefreshTokenExp(),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	emailSender := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, lgr)

	smsSender := sms.NewGatewaySender(sms.GatewayConfig{
		URL:    cfg.SMS.GatewayURL,
		APIKey: cfg.SMS.APIKey,
		From:   cfg.SMS.From,
	}, lgr)

	dailyFine, err := decimal.NewFromString(cfg.Finance.LibraryDailyFine)
	if err != nil {
		return nil, fmt.Errorf("invalid library daily fine %q: %w", cfg.Finance.LibraryDailyFine, err)
	}

	deps.NotificationService = appServices.NewNotificationService(deps.Repos.Notification, emailSender, smsSender)
	deps.AuthService = appServices.NewAuthService(deps.Repos.Tenant, deps.Repos.User, deps.Repos.Token, deps.JWTService)
	deps.TenantService = appServices.NewTenantService(deps.Repos.Tenant)
	deps.AcademicService = appServices.NewAcademicService(dbPool, deps.Repos.Academic, deps.Cache)
	deps.AdmissionService = appServices.NewAdmissionService(
		dbPool, deps.Repos.Application, deps.Repos.Academic, deps.Repos.User, deps.Repos.Student, deps.NotificationService)
	deps.StudentService = appServices.NewStudentService(deps.Repos.Student)
	deps.CourseService = appServices.NewCourseService(dbPool, deps.Repos.Course, deps.Repos.Academic, deps.Repos.User)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		dbPool, deps.Repos.Course, deps.Repos.Student, deps.AcademicService, deps.NotificationService, deps.Repos.User)
	deps.GradeService = appServices.NewGradeService(
		dbPool, deps.Repos.Grade, deps.Repos.Course, deps.Repos.Student, deps.NotificationService, deps.Cache)
	deps.ScheduleService = appServices.NewScheduleService(dbPool, deps.Repos.Schedule, deps.Repos.Course)
	deps.AttendanceService = appServices.NewAttendanceService(
		dbPool, deps.Repos.Attendance, deps.Repos.Course, deps.Repos.Student, deps.NotificationService,
		cfg.Attendance.AbsenceThreshold)
	deps.FinanceService = appServices.NewFinanceService(
		dbPool, deps.Repos.Finance, deps.Repos.Student, deps.Repos.Academic, deps.Repos.User,
		deps.NotificationService, deps.Cache)
	deps.PayrollService = appServices.NewPayrollService(dbPool, deps.Repos.Payroll, deps.Repos.HR)
	deps.LibraryService = appServices.NewLibraryService(
		dbPool, deps.Repos.Library, deps.Repos.User, deps.NotificationService, dailyFine)
	deps.HRService = appServices.NewHRService(dbPool, deps.Repos.HR, deps.Repos.User)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.TenantController = appControllers.NewTenantController(deps.TenantService)
	deps.AdmissionController = appControllers.NewAdmissionController(deps.AdmissionService)
	deps.AcademicController = appControllers.NewAcademicController(deps.AcademicService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService, deps.StudentService)
	deps.GradeController = appControllers.NewGradeController(deps.GradeService, deps.StudentService)
	deps.ScheduleController = appControllers.NewScheduleController(deps.ScheduleService, deps.StudentService)
	deps.AttendanceController = appControllers.NewAttendanceController(deps.AttendanceService)
	deps.FinanceController = appControllers.NewFinanceController(deps.FinanceService)
	deps.PayrollController = appControllers.NewPayrollController(deps.PayrollService)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService)
	deps.LibraryController = appControllers.NewLibraryController(deps.LibraryService)
	deps.HRController = appControllers.NewHRController(deps.HRService)

	deps.Scheduler = jobs.NewScheduler(deps.AuthService, deps.FinanceService, deps.LibraryService)

	return deps, nil
}

// setupCache connects to Redis, falling back to the no-op store when Redis is
// disabled or unreachable.
func setupCache(cfg *config.Config, lgr zerolog.Logger) cache.Store {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled, caching is off")
		return cache.NoopStore{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := cache.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, caching is off")
		return cache.NoopStore{}
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis cache connected")
	return store
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.RegisterCustomRules(v); err != nil {
			lgr.Warn().Err(err).Msg("Failed to register custom validation rules")
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.TenantController,
		deps.AdmissionController,
		deps.AcademicController,
		deps.StudentController,
		deps.CourseController,
		deps.EnrollmentController,
		deps.GradeController,
		deps.ScheduleController,
		deps.AttendanceController,
		deps.FinanceController,
		deps.PayrollController,
		deps.NotificationController,
		deps.LibraryController,
		deps.HRController,
		deps.AuthMiddleware,
	)

	return router
}
