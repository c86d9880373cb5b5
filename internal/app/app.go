package app

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/healthpredict/healthpredict-backend/internal/config"
	"github.com/healthpredict/healthpredict-backend/internal/observability"
	"github.com/healthpredict/healthpredict-backend/internal/service"
)

// App holds everything main needs to run and to shut down cleanly: the HTTP
// server, the delivery worker, and the handles whose teardown order matters.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	DB            *gorm.DB
	Redis         redis.UniversalClient
	Dispatcher    *service.OutboundDispatcher
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	dispatcher *service.OutboundDispatcher,
) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Server:        server,
		Observability: runtime,
		DB:            db,
		Redis:         redisClient,
		Dispatcher:    dispatcher,
	}
}
