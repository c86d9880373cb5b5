package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/healthpredict/healthpredict-backend/internal/app"
	"github.com/healthpredict/healthpredict-backend/internal/config"
	"github.com/healthpredict/healthpredict-backend/internal/database"
	"github.com/healthpredict/healthpredict-backend/internal/health"
	"github.com/healthpredict/healthpredict-backend/internal/http/handler"
	"github.com/healthpredict/healthpredict-backend/internal/http/router"
	"github.com/healthpredict/healthpredict-backend/internal/observability"
	"github.com/healthpredict/healthpredict-backend/internal/repository"
	"github.com/healthpredict/healthpredict-backend/internal/security"
	"github.com/healthpredict/healthpredict-backend/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewAccountRepository,
	repository.NewPredictionRepository,
)

var SecuritySet = wire.NewSet(
	provideJWTManager,
)

var ServiceSet = wire.NewSet(
	service.NewSystemClock,
	provideNotifier,
	provideDispatcher,
	providePasscodeService,
	service.NewAuthService,
	providePredictionCache,
	service.NewPredictionService,
	wire.Bind(new(service.DeliveryDispatcher), new(*service.OutboundDispatcher)),
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	wire.Bind(new(service.PredictionServiceInterface), new(*service.PredictionService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewProfileHandler,
	handler.NewPredictionHandler,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

type MigrationRunner struct {
	db *gorm.DB
}

func NewMigrationRunner(db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{db: db}
}

func (m *MigrationRunner) Run() error {
	if err := database.Migrate(m.db); err != nil {
		return err
	}
	fmt.Println("migration complete")
	return nil
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	return observability.InitRuntime(context.Background(), cfg)
}

func provideAppLogger(runtime *observability.Runtime) *slog.Logger {
	return runtime.Logger
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config) redis.UniversalClient {
	if !cfg.CacheRedisEnabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTSecret, cfg.SessionTokenTTL)
}

func provideNotifier(cfg *config.Config, logger *slog.Logger) service.Notifier {
	if cfg.NotifierMode == "smtp" {
		return service.NewSMTPNotifier(service.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			CodeTTL:  cfg.PasscodeTTL,
		})
	}
	return service.NewDevNotifier(logger)
}

func provideDispatcher(cfg *config.Config, notifier service.Notifier, logger *slog.Logger) *service.OutboundDispatcher {
	return service.NewOutboundDispatcher(notifier, logger, cfg.DeliveryQueueSize, cfg.DeliveryMaxAttempts, time.Second)
}

func providePasscodeService(cfg *config.Config, accounts repository.AccountRepository, dispatcher service.DeliveryDispatcher, clock service.Clock) *service.PasscodeService {
	return service.NewPasscodeService(accounts, dispatcher, clock, cfg.PasscodeTTL)
}

func providePredictionCache(cfg *config.Config, redisClient redis.UniversalClient) *service.PredictionCache {
	return service.NewPredictionCache(redisClient, cfg.PredictionCacheTTL)
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	predictionHandler *handler.PredictionHandler,
	authSvc service.AuthServiceInterface,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:       authHandler,
		ProfileHandler:    profileHandler,
		PredictionHandler: predictionHandler,
		AuthService:       authSvc,
		CORSOrigins:       cfg.CORSAllowedOrigins,
		Readiness:         readiness,
		EnableOTelHTTP:    cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient) *health.ProbeRunner {
	checkers := []health.Checker{
		health.NewDBChecker(db),
		health.NewPredictorChecker(cfg.PredictorBaseURL),
	}
	if cfg.CacheRedisEnabled {
		checkers = append(checkers, health.NewRedisChecker(redisClient))
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, cfg.StartupGracePeriod, checkers...)
}
