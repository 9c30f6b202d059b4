package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/tgienger/tasks/internal/auth"
	"github.com/tgienger/tasks/internal/config"
	"github.com/tgienger/tasks/internal/db"
	"github.com/tgienger/tasks/internal/logging"
	"github.com/tgienger/tasks/internal/models"
	"github.com/tgienger/tasks/internal/pgstore"
	"github.com/tgienger/tasks/internal/prefs"
	"github.com/tgienger/tasks/internal/tasks"
)

// errNotSignedIn is returned by commands that need a session
var errNotSignedIn = errors.New("not signed in, run 'tasks login' or 'tasks signup' first")

// env holds everything a command needs, wired from config
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *db.DB
	store   tasks.Store
	auth    *auth.Service
	prefs   prefs.Store
	closers []func() error
}

// loadConfig loads the config with the global flags layered on top
func loadConfig(loader *config.Loader, flags *globalFlags) (*config.Config, error) {
	return loader.Load(flags.configPath, config.WithLogLevel(flags.logLevel))
}

// setup loads config and opens the configured backends
func setup(ctx context.Context, flags *globalFlags) (*env, error) {
	cfg, err := loadConfig(config.NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil))), flags)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		if dataDir, err = db.DataDir(); err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
	}

	e := &env{cfg: cfg}

	logger, logFile, err := logging.New(dataDir, cfg.Log)
	if err != nil {
		return nil, err
	}
	e.logger = logger
	e.closers = append(e.closers, logFile.Close)
	slog.SetDefault(logger)

	database, err := db.New(filepath.Join(dataDir, "tasks.db"))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.db = database
	e.closers = append(e.closers, database.Close)

	switch cfg.Backend {
	case config.BackendPostgres:
		pg, err := pgstore.Open(ctx, cfg.Postgres.DSN, logger)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.store = pg
		e.closers = append(e.closers, func() error { pg.Close(); return nil })
	default:
		e.store = database
	}

	switch cfg.Preferences.Backend {
	case config.BackendRedis:
		client, err := prefs.DialRedis(ctx, cfg.Preferences.RedisAddr)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.prefs = prefs.NewRedisStore(client, "tasks:")
		e.closers = append(e.closers, client.Close)
	default:
		e.prefs = prefs.NewSettingsStore(database)
	}

	if e.auth, err = newAuthService(ctx, cfg, database, logger); err != nil {
		e.Close()
		return nil, err
	}

	logger.Debug("Environment ready",
		slog.String("backend", cfg.Backend),
		slog.String("preferences", cfg.Preferences.Backend),
		slog.String("data_dir", dataDir))
	return e, nil
}

func newAuthService(ctx context.Context, cfg *config.Config, database *db.DB, logger *slog.Logger) (*auth.Service, error) {
	gdb, err := auth.OpenGorm(database.DB)
	if err != nil {
		return nil, fmt.Errorf("open user store: %w", err)
	}

	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		if secret, err = auth.EnsureSecret(ctx, database); err != nil {
			return nil, fmt.Errorf("load session secret: %w", err)
		}
	}

	return auth.NewService(
		auth.NewUserRepository(gdb),
		auth.NewPasswordHasher(0),
		auth.NewTokenManager(secret, cfg.Auth.SessionTTL),
		database,
		logger,
	), nil
}

// newRepository builds a task repository over the configured store
func (e *env) newRepository(opts ...tasks.Option) *tasks.Repository {
	opts = append([]tasks.Option{tasks.WithLogger(e.logger)}, opts...)
	return tasks.NewRepository(e.store, tasks.NewState(), opts...)
}

// requireUser returns the signed-in user or errNotSignedIn
func (e *env) requireUser(ctx context.Context) (*models.User, error) {
	user, ok := e.auth.CurrentUser(ctx)
	if !ok {
		return nil, errNotSignedIn
	}
	return user, nil
}

// Close releases backends in reverse order of opening
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && e.logger != nil {
			e.logger.Warn("Failed to close resource", slog.Any("error", err))
		}
	}
	e.closers = nil
}
