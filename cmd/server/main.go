// Package main implements the entry point for the task API server: a
// multi-tenant task manager with account, session, profile and task
// endpoints backed by PostgreSQL.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/tthornvik/task-api/internal/config"
	"github.com/tthornvik/task-api/internal/platform/logger"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, connects to the
// database, applies migrations and wires the application dependencies.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("mail_enabled", cfg.Mail.Enabled()))

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db, appLogger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to wire application: %w", err)
	}

	return app, nil
}
