package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hirewire/hirewire-backend/internal/config"
	"github.com/hirewire/hirewire-backend/internal/health"
	"github.com/hirewire/hirewire-backend/internal/observability"
	"github.com/hirewire/hirewire-backend/internal/service"
)

// App carries everything main needs to run and shut down the process.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	DB            *gorm.DB
	Redis         redis.UniversalClient
	Readiness     *health.ProbeRunner
	Sweeper       *service.OTPSweeper
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
	sweeper *service.OTPSweeper,
) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Server:        server,
		Observability: runtime,
		DB:            db,
		Redis:         redisClient,
		Readiness:     readiness,
		Sweeper:       sweeper,
	}
}

func (a *App) ShutdownTimeout() time.Duration              { return a.Config.ShutdownTimeout }
func (a *App) ShutdownHTTPDrainTimeout() time.Duration     { return a.Config.ShutdownHTTPDrainTimeout }
func (a *App) ShutdownObservabilityTimeout() time.Duration { return a.Config.ShutdownObservabilityTimeout }
