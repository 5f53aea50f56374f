// Package app wires configuration, storage, the remote client and the sync
// engine into one value shared by every command.
package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/najeeb67/my-money-mat/internal/client"
	"github.com/najeeb67/my-money-mat/internal/config"
	"github.com/najeeb67/my-money-mat/internal/database"
	"github.com/najeeb67/my-money-mat/internal/events"
	"github.com/najeeb67/my-money-mat/internal/logger"
	"github.com/najeeb67/my-money-mat/internal/server"
	"github.com/najeeb67/my-money-mat/internal/services"
	"github.com/najeeb67/my-money-mat/internal/syncer"
	"github.com/najeeb67/my-money-mat/internal/validator"
)

// App holds the long-lived components.
type App struct {
	Config       *config.Config
	Items        services.BudgetItemServicer
	Outbox       services.OutboxServicer
	Client       *client.FinanceClient
	Hub          *events.Hub
	Orchestrator *syncer.Orchestrator
	Scheduler    *syncer.Scheduler

	db *database.Manager
}

// New opens the local database, applies migrations and builds the services.
func New(cfg *config.Config, dbCfg *database.Config) (*App, error) {
	if cfg.DBPath != "" {
		dbCfg.Path = cfg.DBPath
	}

	dbManager, err := database.NewManager(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		_ = dbManager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	hub := events.NewHub()
	db := dbManager.DB()
	items := services.NewBudgetItemService(db, hub)
	outbox := services.NewOutboxService(db)

	financeClient := client.NewFinanceClient(cfg.APIBaseURL, cfg.APIToken, &http.Client{Timeout: cfg.RequestTimeout})
	if exp, ok := financeClient.TokenExpiresAt(); ok {
		logger.Get().Infow("remote token loaded", "expires_at", exp)
	}

	orch := syncer.NewOrchestrator(items, outbox, financeClient, hub, syncer.Options{AutoResolve: cfg.AutoResolve})

	return &App{
		Config:       cfg,
		Items:        items,
		Outbox:       outbox,
		Client:       financeClient,
		Hub:          hub,
		Orchestrator: orch,
		Scheduler:    syncer.NewScheduler(orch, cfg.SyncInterval, cfg.OnlineCheckInterval),
		db:           dbManager,
	}, nil
}

// Router builds the local HTTP API over the app's components.
func (a *App) Router() *gin.Engine {
	validator.Register()
	return server.NewRouter(server.Deps{
		Items:          a.Items,
		Outbox:         a.Outbox,
		Controller:     a.Orchestrator,
		Subscriber:     a.Hub,
		APIKey:         a.Config.LocalAPIKey,
		AllowedOrigins: a.Config.AllowedOrigins,
	})
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}
