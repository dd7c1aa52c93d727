package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskpulse/taskpulse-api/internal/config"
	"github.com/taskpulse/taskpulse-api/internal/platform/logger"
	"github.com/taskpulse/taskpulse-api/internal/platform/postgres"
	"github.com/taskpulse/taskpulse-api/internal/realtime"
	"github.com/taskpulse/taskpulse-api/internal/service/auth"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// application holds the assembled dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	registry   *realtime.Registry
	dispatcher *realtime.Dispatcher
	gateway    *realtime.Gateway
}

// newApplication loads configuration and wires every component: logging,
// database, migrations, stores, auth services, and the realtime gateway.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"allow_query_user_id", cfg.Server.AllowQueryUserID)
	if cfg.Server.AllowQueryUserID {
		log.Warn("unverified userId handshake parameter is enabled; do not use in production")
	}

	db, err := setupDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, log); err != nil {
		db.Close()
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	app := &application{
		config:           cfg,
		logger:           log,
		db:               db,
		userStore:        postgres.NewPostgresUserStore(db, log),
		taskStore:        postgres.NewPostgresTaskStore(db, log),
		jwtService:       jwtService,
		passwordVerifier: &auth.BcryptVerifier{},
	}
	app.setupRealtime()
	return app, nil
}

// setupRealtime wires the websocket subsystem: the session registry, the
// broadcast router, the command dispatcher, and the gateway serving /ws.
func (app *application) setupRealtime() {
	app.registry = realtime.NewRegistry(app.logger)
	router := realtime.NewRouter(app.registry, app.logger)
	app.dispatcher = realtime.NewDispatcher(app.taskStore, app.registry, router, app.logger)

	resolver := realtime.NewPrincipalResolver(app.jwtService, app.config.Server.AllowQueryUserID)
	app.gateway = realtime.NewGateway(app.registry, router, app.dispatcher, resolver, app.logger)
}

// tokenLifetime returns the configured access token lifetime.
func (app *application) tokenLifetime() time.Duration {
	return time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
