package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/polycampus/backend/internal/app/auth"
	appControllers "github.com/polycampus/backend/internal/app/controllers"
	appMigrations "github.com/polycampus/backend/internal/app/migrations"
	appRepos "github.com/polycampus/backend/internal/app/repositories"
	appRoutes "github.com/polycampus/backend/internal/app/routes"
	"github.com/polycampus/backend/internal/app/schema"
	appServices "github.com/polycampus/backend/internal/app/services"
	"github.com/polycampus/backend/internal/config"
	"github.com/polycampus/backend/internal/db"
	appMiddleware "github.com/polycampus/backend/internal/middleware"
	pkgAuth "github.com/polycampus/backend/internal/pkg/auth"
	"github.com/polycampus/backend/internal/pkg/helpers"
	"github.com/polycampus/backend/internal/pkg/logger"
	"github.com/polycampus/backend/internal/pkg/metrics"
	"github.com/polycampus/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       *appServices.AuthService
	FacultyService    *appServices.ContentService
	RoutineService    *appServices.ContentService
	NoticeService     *appServices.ContentService
	AuthController    *appControllers.AuthController
	FacultyController *appControllers.ContentController
	RoutineController *appControllers.ContentController
	NoticeController  *appControllers.ContentController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	AuthzService      *appAuth.AuthorizationService
	Metrics           *metrics.Metrics
	Logger            zerolog.Logger
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

// SetupDatabase establishes the database connection, runs migrations and
// seeds the admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, dbPool, cfg, lgr); err != nil {
		// Seeding trouble should not keep the public site down.
		lgr.Error().Err(err).Msg("Failed to seed default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Metrics = metrics.New()

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.Users)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.Users, deps.Repos.Tokens, deps.JWTService, lgr)

	deps.FacultyService = appServices.NewContentService(schema.KindFaculty, deps.Repos.Faculty, deps.AuthzService, deps.Metrics, lgr)
	deps.RoutineService = appServices.NewContentService(schema.KindRoutine, deps.Repos.Routine, deps.AuthzService, deps.Metrics, lgr)
	deps.NoticeService = appServices.NewContentService(schema.KindNotice, deps.Repos.Notice, deps.AuthzService, deps.Metrics, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.FacultyController = appControllers.NewContentController(deps.FacultyService)
	deps.RoutineController = appControllers.NewContentController(deps.RoutineService)
	deps.NoticeController = appControllers.NewContentController(deps.NoticeService)

	// Drop stale refresh tokens left over from previous runs.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := deps.Repos.Tokens.DeleteExpired(ctx); err != nil {
		lgr.Warn().Err(err).Msg("Failed to delete expired refresh tokens")
	}

	return deps, nil
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

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.FacultyController,
		deps.RoutineController,
		deps.NoticeController,
		deps.AuthMiddleware,
		deps.Metrics.Handler(),
	)

	return router
}
