package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/roster-api/roster/internal/app"
	"github.com/roster-api/roster/internal/platform/db"
	"github.com/roster-api/roster/internal/users"
)

func main() {
	// Best-effort .env load for local development.
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Default().Error("startup failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// run owns the server lifecycle so deferred cleanup, pool drain included,
// fires on every exit path.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg)

	pair, err := db.New(ctx, cfg.PrimaryPool(), cfg.ReplicaPool(), logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pair.Close()

	if err := pair.TestConnections(ctx); err != nil {
		return fmt.Errorf("initial connectivity check: %w", err)
	}

	usersRepo := users.NewRepository(pair)
	usersService := users.NewService(usersRepo, logger)
	usersHandler := users.NewHandler(logger, usersService, cfg.IsDevelopment())

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		DB:           pair,
		UsersHandler: usersHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("environment", cfg.AppEnv),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	return nil
}
