package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/eldenheights/ehsas/internal/app/controllers"
	appMigrations "github.com/eldenheights/ehsas/internal/app/migrations"
	appRepos "github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/app/repositories/memory"
	appRoutes "github.com/eldenheights/ehsas/internal/app/routes"
	appServices "github.com/eldenheights/ehsas/internal/app/services"
	"github.com/eldenheights/ehsas/internal/config"
	"github.com/eldenheights/ehsas/internal/db"
	appMiddleware "github.com/eldenheights/ehsas/internal/middleware"
	pkgAuth "github.com/eldenheights/ehsas/internal/pkg/auth"
	"github.com/eldenheights/ehsas/internal/pkg/email"
	"github.com/eldenheights/ehsas/internal/pkg/helpers"
	"github.com/eldenheights/ehsas/internal/pkg/logger"
	"github.com/eldenheights/ehsas/internal/pkg/metrics"
	"github.com/eldenheights/ehsas/internal/pkg/ratelimit"
	"github.com/eldenheights/ehsas/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Limiter        ratelimit.Limiter
	Logger         zerolog.Logger
}

// Store is the opened persistence layer. Postgres is nil for the memory driver.
type Store struct {
	Repos    *appRepos.Repositories
	Postgres *db.PostgresDB
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured store and, for postgres, applies migrations.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory store, data is lost on restart")
		return &Store{Repos: memory.NewRepositories()}, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return &Store{Repos: appRepos.NewRepositories(database.Pool), Postgres: database}, nil
}

// SetupRedis connects to redis when it is enabled. It returns nil otherwise.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*db.Redis, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	client, err := db.NewRedis(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to redis")
		return nil, err
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established.")
	return client, nil
}

// NewMailer selects the outbound mail transport
func NewMailer(cfg *config.Config, lgr zerolog.Logger) email.Mailer {
	switch cfg.Email.Provider {
	case config.EmailProviderSMTP:
		return email.NewSMTPMailer(email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUser,
			Password:  cfg.Email.SMTPPassword,
			FromName:  cfg.Email.FromName,
			FromEmail: cfg.Email.FromEmail,
		}, lgr)
	case config.EmailProviderSendGrid:
		return email.NewSendGridMailer(cfg.Email.SendGridAPIKey, cfg.Email.FromName, cfg.Email.FromEmail, lgr)
	default:
		return email.NewLogMailer(lgr)
	}
}

// NewVerifier builds the admin credential verifier. The JWT service is nil in federated mode.
func NewVerifier(cfg *config.Config, lgr zerolog.Logger) (pkgAuth.CredentialVerifier, *pkgAuth.JWTService) {
	if cfg.Auth.Mode == config.AuthModeFederated {
		return pkgAuth.NewFederatedVerifier(pkgAuth.FederatedConfig{
			KeysURL:   cfg.Auth.KeysURL,
			ProjectID: cfg.Auth.ProjectID,
			Issuer:    cfg.Auth.Issuer,
		}, nil, lgr), nil
	}

	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExpiry: helpers.ParseDuration(cfg.JWT.Expiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})
	return pkgAuth.NewLocalVerifier(jwtService), jwtService
}

// NewLimiter builds the rate limiter for register and login
func NewLimiter(cfg *config.Config, redisClient *db.Redis) ratelimit.Limiter {
	if cfg.RateLimit.Backend == config.RateLimitRedis && redisClient != nil {
		return ratelimit.NewRedisWindow(redisClient.Client, cfg.RateLimit.PerMinute)
	}
	return ratelimit.NewTokenBucket(cfg.RateLimit.PerMinute, cfg.RateLimit.PerMinute)
}

// BuildDependencies initializes services, controllers and middleware over an opened store.
func BuildDependencies(ctx context.Context, cfg *config.Config, store *Store, redisClient *db.Redis, lgr zerolog.Logger) (*Dependencies, error) {
	lgr.Info().Msg("Initializing application dependencies...")
	repos := store.Repos

	verifier, jwtService := NewVerifier(cfg, logger.Component("auth"))
	if jwtService != nil {
		if err := seed.EnsureAdminAccount(ctx, repos.Admins, cfg.Admin.Email, cfg.Admin.Password, lgr); err != nil {
			return nil, fmt.Errorf("failed to seed admin account: %w", err)
		}
	}

	emailLogger := logger.Component("email")
	dispatcher := email.NewDispatcher(NewMailer(cfg, emailLogger), email.DispatcherConfig{
		OperatorAddress: cfg.Email.OperatorAddress,
		ContactAddress:  cfg.Email.OperatorAddress,
		Timeout:         helpers.ParseDuration(cfg.Email.Timeout, 10*time.Second),
	}, emailLogger)

	svcs := appServices.NewServices(appServices.Deps{
		Repos:    repos,
		Notifier: dispatcher,
		Verifier: verifier,
		JWT:      jwtService,
		Logger:   lgr,
	})

	checks := map[string]appControllers.HealthCheck{"store": repos.Ping}
	if redisClient != nil {
		checks["redis"] = redisClient.Ping
	}

	deps := &Dependencies{
		Repos:    repos,
		Services: svcs,
		Controllers: appRoutes.Controllers{
			Alumni:    appControllers.NewAlumniController(svcs.Membership, svcs.Directory),
			Auth:      appControllers.NewAuthController(svcs.Auth),
			Events:    appControllers.NewEventController(svcs.Events),
			Spotlight: appControllers.NewSpotlightController(svcs.Spotlight),
			Admin:     appControllers.NewAdminController(svcs.Stats, svcs.Notifications),
			Health:    appControllers.NewHealthController(checks),
		},
		AuthMiddleware: appMiddleware.NewAuthMiddleware(svcs.Auth),
		Limiter:        NewLimiter(cfg, redisClient),
		Logger:         lgr,
	}

	lgr.Info().Str("authMode", cfg.Auth.Mode).Str("store", cfg.Database.Driver).Msg("Application dependencies initialized successfully.")
	return deps, nil
}

// SetupRouter creates the gin engine with global middleware and all routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appMiddleware.RegisterValidators()
	metrics.Register()

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		lgr.Error().Err(err).Strs("trustedProxies", cfg.Server.TrustedProxies).Msg("Invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.Metrics())
	router.Use(appMiddleware.SecurityHeaders())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupMetrics(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.Limiter, lgr)

	lgr.Info().Msg("Router setup complete.")
	return router
}
