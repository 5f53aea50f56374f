package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/najeeb67/my-money-mat/internal/app"
	"github.com/najeeb67/my-money-mat/internal/config"
	"github.com/najeeb67/my-money-mat/internal/database"
	"github.com/najeeb67/my-money-mat/internal/logger"
)

// @title           My Money Mat API
// @version         1.0
// @description     Offline-first budget tracker. Items are stored locally and synced to the finance server when a connection is available.

// @host      localhost:8090
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Local API key, required when LOCAL_API_KEY is set.

var rootCmd = &cobra.Command{
	Use:           "moneymat",
	Short:         "Offline-first budget tracker with background sync",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(replayCmd())
	rootCmd.AddCommand(statusCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, initializes logging and opens the app.
func bootstrap() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.InitWithOptions(logger.Options{Env: cfg.Env, Level: cfg.LogLevel, File: cfg.LogFile})

	dbCfg, err := database.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}

	return app.New(cfg, dbCfg)
}
