// Command reconcile creates missing orders for accepted estimates and rebuilds the pipeline
// board from the stored estimates and orders.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/dealdesk/internal/app"
	"github.com/MrJamesThe3rd/dealdesk/internal/config"
	"github.com/MrJamesThe3rd/dealdesk/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.Log.Format, cfg.Log.Level))

	if cfg.App.Store == config.StoreMemory {
		slog.Error("nothing to reconcile with STORE=memory")
		os.Exit(1)
	}

	ctx := context.Background()

	repos, closeRepos, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeRepos()

	report, err := app.NewServices(repos).Reconciler.Run(ctx)
	if err != nil {
		slog.Error("reconciliation failed", "error", err)
		closeRepos()
		os.Exit(1)
	}

	slog.Info("reconciliation finished",
		"estimates", report.Estimates,
		"orders", report.Orders,
		"orders_created", report.OrdersCreated,
		"cards_synced", report.CardsSynced,
		"materialize_failed", len(report.MaterializeFailed),
		"sync_failed", len(report.SyncFailed),
	)

	if len(report.MaterializeFailed) > 0 || len(report.SyncFailed) > 0 {
		closeRepos()
		os.Exit(1)
	}
}
