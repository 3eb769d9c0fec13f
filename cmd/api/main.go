package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/app"
	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/config"
	dealdeskHttp "github.com/MrJamesThe3rd/dealdesk/internal/http"
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

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "store", cfg.App.Store, "error", err)
		os.Exit(1)
	}
	defer closeRepos()

	services := app.NewServices(repos)

	var authManager *auth.Manager
	if cfg.AuthEnabled() {
		authManager = auth.NewManager(cfg.Auth.User, cfg.Auth.Password, cfg.Auth.Secret, cfg.Auth.SessionTTL)
	} else {
		slog.Warn("BASIC_AUTH_USER not set, operator routes are open")
	}

	router := services.Router(authManager, dealdeskHttp.Options{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Timeout:         cfg.Server.Timeout,
		PublicRateLimit: cfg.Server.RateLimit,
		Production:      cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", cfg.App.Port, "store", cfg.App.Store, "auth", cfg.AuthEnabled())

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
