package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	// AppDir is the directory name used under the XDG base directories
	AppDir = "tasks"
	// ConfigFile is the name of the user-level config file
	ConfigFile = "config.yaml"
	// EnvPrefix prefixes every environment override
	EnvPrefix = "TASKS_"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	getenv func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, getenv: os.LookupEnv}
}

// Override changes a loaded config before it is validated. Command-line
// flags are applied this way, after the file and environment.
type Override func(*Config)

// WithLogLevel overrides log.level unless level is empty
func WithLogLevel(level string) Override {
	return func(c *Config) {
		if level != "" {
			c.Log.Level = level
		}
	}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Config file (path, or the user config when path is empty)
// 3. TASKS_* environment variables
// 4. overrides, in order
//
// An explicit path that does not exist is an error; a missing user config
// is not.
func (l *Loader) Load(path string, overrides ...Override) (*Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = UserConfigPath()
	}

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		switch {
		case err == nil:
			l.logger.Debug("Loaded config", slog.String("path", path))
			config.Merge(fileConfig)
		case errors.Is(err, os.ErrNotExist) && !explicit:
			l.logger.Debug("No user config found", slog.String("path", path))
		default:
			return nil, err
		}
	}

	if err := l.applyEnv(config); err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() (string, error) {
	path := UserConfigPath()
	if path == "" {
		return "", errors.New("cannot determine config directory")
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := DefaultConfig().SaveToFile(path); err != nil {
		return "", err
	}
	l.logger.Info("Created default user config", slog.String("path", path))
	return path, nil
}

func (l *Loader) applyEnv(c *Config) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"DATA_DIR", &c.DataDir},
		{"BACKEND", &c.Backend},
		{"POSTGRES_DSN", &c.Postgres.DSN},
		{"AUTH_SECRET", &c.Auth.Secret},
		{"PREFERENCES_BACKEND", &c.Preferences.Backend},
		{"REDIS_ADDR", &c.Preferences.RedisAddr},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FORMAT", &c.Log.Format},
	}
	for _, s := range strs {
		if v, ok := l.getenv(EnvPrefix + s.key); ok && v != "" {
			*s.dst = v
		}
	}

	if v, ok := l.getenv(EnvPrefix + "SESSION_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sSESSION_TTL: %w", EnvPrefix, err)
		}
		c.Auth.SessionTTL = ttl
	}
	return nil
}

// UserConfigPath returns $XDG_CONFIG_HOME/tasks/config.yaml, falling back
// to ~/.config/tasks/config.yaml. It returns "" when no home is known.
func UserConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppDir, ConfigFile)
}
