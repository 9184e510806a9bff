// Package setup bootstraps the application's shared dependencies.
package setup

import (
	"context"

	"github.com/suspybot/suspy/internal/ai"
	aiClient "github.com/suspybot/suspy/internal/ai/client"
	"github.com/suspybot/suspy/internal/database"
	"github.com/suspybot/suspy/internal/service"
	"github.com/suspybot/suspy/internal/setup/config"
	"github.com/suspybot/suspy/internal/setup/telemetry"
	"go.uber.org/zap"
)

// App bundles the core dependencies every entrypoint needs.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       database.Client
	AIClient *aiClient.AIClient
	Service  *service.Service
}

// InitializeApp bootstraps configuration, logging, the database, the AI
// client, and the service layer, in dependency order.
func InitializeApp(ctx context.Context) (*App, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := telemetry.NewLogger(cfg.Debug.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(ctx, &cfg.PostgreSQL, logger, true)
	if err != nil {
		return nil, err
	}

	client, err := aiClient.NewClient(ctx, &cfg.Gemini, logger)
	if err != nil {
		return nil, err
	}

	scanner := ai.NewLinkScanner(client, logger)

	svc, err := service.New(db.Model(), scanner, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		AIClient: client,
		Service:  svc,
	}, nil
}

// CleanupApp releases connections in reverse initialization order.
func (a *App) CleanupApp() {
	if a.AIClient != nil {
		a.AIClient.Close()
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = a.Logger.Sync()
}
