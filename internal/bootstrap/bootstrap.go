package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/coordenaplus/backend/internal/app/controllers"
	appMigrations "github.com/coordenaplus/backend/internal/app/migrations"
	appRepos "github.com/coordenaplus/backend/internal/app/repositories"
	appRoutes "github.com/coordenaplus/backend/internal/app/routes"
	appServices "github.com/coordenaplus/backend/internal/app/services"
	"github.com/coordenaplus/backend/internal/config"
	"github.com/coordenaplus/backend/internal/db"
	appMiddleware "github.com/coordenaplus/backend/internal/middleware"
	pkgAuth "github.com/coordenaplus/backend/internal/pkg/auth"
	"github.com/coordenaplus/backend/internal/pkg/email"
	"github.com/coordenaplus/backend/internal/pkg/logger"
	"github.com/coordenaplus/backend/internal/pkg/notify"
	"github.com/coordenaplus/backend/internal/pkg/webpush"
	"github.com/coordenaplus/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           *appServices.AuthService
	ApprovalService       *appServices.ApprovalService
	ReservationService    *appServices.ReservationService
	CoordinatorService    *appServices.CoordinatorService
	ScheduleService       *appServices.ScheduleService
	PushService           *appServices.PushService
	AuthController        *appControllers.AuthController
	ReservationController *appControllers.ReservationController
	AdminController       *appControllers.AdminController
	PushController        *appControllers.PushController
	CoordinatorController *appControllers.CoordinatorController
	ScheduleController    *appControllers.ScheduleController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	Dispatcher            notify.Dispatcher
	Logger                zerolog.Logger
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
// seeds the first admin account.
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

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, lgr); err != nil {
		// A missing seed admin only blocks the approval queue, not the API
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  cfg.AccessTokenExp(),
		RefreshTokenExp: cfg.RefreshTokenExp(),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  "Coordena+",
		FromEmail: cfg.SMTP.From,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	pusher := webpush.NewSender(webpush.VAPIDConfig{
		Subject:    cfg.WebPush.Subject,
		PublicKey:  cfg.WebPush.PublicKey,
		PrivateKey: cfg.WebPush.PrivateKey,
		TTL:        cfg.WebPush.TTL,
	})

	deps.Dispatcher = notify.NewDispatcher(deps.Repos.SubscriptionRepository, pusher, mailer, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		deps.Dispatcher,
		lgr,
	)
	deps.ApprovalService = appServices.NewApprovalService(
		deps.Repos.UserRepository,
		deps.Repos.ReservationRepository,
		deps.Dispatcher,
		lgr,
	)
	deps.ReservationService = appServices.NewReservationService(deps.Repos.ReservationRepository, lgr)
	deps.CoordinatorService = appServices.NewCoordinatorService(deps.Repos.CoordinatorRepository, lgr)
	deps.ScheduleService = appServices.NewScheduleService(deps.Repos.ScheduleRepository, lgr)
	deps.PushService = appServices.NewPushService(deps.Repos.SubscriptionRepository, pusher, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.ReservationController = appControllers.NewReservationController(deps.ReservationService, lgr)
	deps.AdminController = appControllers.NewAdminController(deps.ApprovalService, lgr)
	deps.PushController = appControllers.NewPushController(deps.PushService, lgr)
	deps.CoordinatorController = appControllers.NewCoordinatorController(deps.CoordinatorService, lgr)
	deps.ScheduleController = appControllers.NewScheduleController(deps.ScheduleService, lgr)

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
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ReservationController,
		deps.AdminController,
		deps.PushController,
		deps.CoordinatorController,
		deps.ScheduleController,
		deps.AuthMiddleware,
	)

	// Liveness endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
