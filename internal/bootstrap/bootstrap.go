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

	appControllers "github.com/kaan/counseldesk/internal/app/controllers"
	appMigrations "github.com/kaan/counseldesk/internal/app/migrations"
	appRepos "github.com/kaan/counseldesk/internal/app/repositories"
	appRoutes "github.com/kaan/counseldesk/internal/app/routes"
	appServices "github.com/kaan/counseldesk/internal/app/services"
	"github.com/kaan/counseldesk/internal/config"
	"github.com/kaan/counseldesk/internal/db"
	appMiddleware "github.com/kaan/counseldesk/internal/middleware"
	pkgAuth "github.com/kaan/counseldesk/internal/pkg/auth"
	"github.com/kaan/counseldesk/internal/pkg/logger"
	"github.com/kaan/counseldesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        appServices.AuthService
	NoteService        appServices.NoteService
	ProfileService     appServices.ProfileService
	PagesController    *appControllers.PagesController
	AuthController     *appControllers.AuthController
	NotesController    *appControllers.NotesController
	StudentsController *appControllers.StudentsController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	SessionManager     *pkgAuth.SessionManager
	Logger             zerolog.Logger
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
// seeds the default admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), cfg, dbPool, lgr); err != nil {
		// Log the error but don't fail the startup.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	// Housekeeping: drop sessions that can no longer authenticate anyone.
	sessionRepo := appRepos.NewSessionRepository(dbPool)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if removed, err := sessionRepo.CleanupExpired(ctx); err != nil {
		lgr.Warn().Err(err).Msg("Failed to clean up expired sessions")
	} else if removed > 0 {
		lgr.Info().Int64("removed", removed).Msg("Expired sessions cleaned up")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.SessionManager = pkgAuth.NewSessionManager(pkgAuth.SessionConfig{
		SecretKey: cfg.Session.Secret,
		Lifetime:  cfg.SessionLifetime(),
		Issuer:    cfg.Session.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.SessionRepository,
		deps.SessionManager,
		lgr,
	)
	deps.NoteService = appServices.NewNoteService(deps.Repos.NoteRepository, deps.Repos.StudentRepository)
	deps.ProfileService = appServices.NewProfileService(deps.Repos.StudentRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionManager, deps.Repos.SessionRepository)

	deps.PagesController = appControllers.NewPagesController()
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.NotesController = appControllers.NewNotesController(deps.NoteService, lgr)
	deps.StudentsController = appControllers.NewStudentsController(deps.ProfileService, deps.NoteService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with templates, middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	templates, err := collectTemplates("web/templates")
	if err != nil {
		return nil, fmt.Errorf("failed to collect templates: %w", err)
	}
	router.LoadHTMLFiles(templates...)

	appRoutes.SetupRouter(router,
		deps.PagesController,
		deps.AuthController,
		deps.NotesController,
		deps.StudentsController,
		deps.AuthMiddleware,
	)

	return router, nil
}

// collectTemplates walks the template root and returns every .html file.
// Templates live in nested directories and register themselves under their
// logical name with a define block, so the on-disk layout is free.
func collectTemplates(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", root)
	}
	return files, nil
}
