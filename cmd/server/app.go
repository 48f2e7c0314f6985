package main

import (
	"database/sql"
	"log/slog"

	"github.com/tthornvik/task-api/internal/config"
	"github.com/tthornvik/task-api/internal/platform/mail"
	"github.com/tthornvik/task-api/internal/platform/postgres"
	"github.com/tthornvik/task-api/internal/service"
	"github.com/tthornvik/task-api/internal/service/auth"
	"github.com/tthornvik/task-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore  store.UserStore
	taskStore  store.TaskStore
	tokenStore store.TokenStore

	// Services
	jwtService  auth.JWTService
	userService *service.UserService
	taskService *service.TaskService
}

// newApplication wires the stores and services on top of the database
// connection. Construction is pure wiring; anything that can fail
// (config, database, migrations) happens before this.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	tokenStore := postgres.NewPostgresTokenStore(db, logger)

	var notifier service.Notifier
	if cfg.Mail.Enabled() {
		notifier = mail.NewSMTPNotifier(cfg.Mail, logger)
	} else {
		logger.Info("mail is not configured, account notifications disabled")
		notifier = mail.NewNoopNotifier(logger)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	userService := service.NewUserService(service.UserServiceConfig{
		DB:         db,
		UserStore:  userStore,
		TaskStore:  taskStore,
		TokenStore: tokenStore,
		JWTService: jwtService,
		Hasher:     hasher,
		Verifier:   hasher,
		Notifier:   notifier,
		Logger:     logger,
	})
	taskService := service.NewTaskService(taskStore, logger)

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		userStore:   userStore,
		taskStore:   taskStore,
		tokenStore:  tokenStore,
		jwtService:  jwtService,
		userService: userService,
		taskService: taskService,
	}, nil
}

// cleanup releases resources on shutdown: it waits for in-flight
// notification goroutines, then closes the database pool.
func (app *application) cleanup() {
	app.userService.WaitForNotifications()

	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
