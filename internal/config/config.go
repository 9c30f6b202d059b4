// Package config provides configuration loading for the tasks CLI.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config represents the complete tasks configuration
type Config struct {
	// DataDir holds the database and log file (default: $XDG_DATA_HOME/tasks)
	DataDir     string            `yaml:"data_dir"`
	Backend     string            `yaml:"backend"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Auth        AuthConfig        `yaml:"auth"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Log         LogConfig         `yaml:"log"`
}

// PostgresConfig configures the remote task store
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// AuthConfig configures sessions
type AuthConfig struct {
	// Secret signs session tokens. Empty means a generated secret kept in
	// the local database.
	Secret     string        `yaml:"secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// PreferencesConfig configures where preferences such as the avatar live
type PreferencesConfig struct {
	Backend   string `yaml:"backend"`
	RedisAddr string `yaml:"redis_addr"`
}

// LogConfig configures the log file
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendSQLite,
		Auth: AuthConfig{
			SessionTTL: 30 * 24 * time.Hour,
		},
		Preferences: PreferencesConfig{
			Backend:   BackendSQLite,
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required when backend is %q", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	switch c.Preferences.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.Preferences.RedisAddr == "" {
			return fmt.Errorf("preferences.redis_addr is required when preferences.backend is %q", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown preferences backend %q", c.Preferences.Backend)
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.Backend != "" {
		c.Backend = other.Backend
	}
	if other.Postgres.DSN != "" {
		c.Postgres.DSN = other.Postgres.DSN
	}

	// Auth
	if other.Auth.Secret != "" {
		c.Auth.Secret = other.Auth.Secret
	}
	if other.Auth.SessionTTL != 0 {
		c.Auth.SessionTTL = other.Auth.SessionTTL
	}

	// Preferences
	if other.Preferences.Backend != "" {
		c.Preferences.Backend = other.Preferences.Backend
	}
	if other.Preferences.RedisAddr != "" {
		c.Preferences.RedisAddr = other.Preferences.RedisAddr
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}

const (
	mask    = "********"
	dsnMask = "xxxxx"
)

var dsnPassword = regexp.MustCompile(`(?i)(password\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// Redacted returns a copy with the session secret and the postgres
// password masked, for display
func (c *Config) Redacted() *Config {
	out := *c
	if out.Auth.Secret != "" {
		out.Auth.Secret = mask
	}
	out.Postgres.DSN = redactDSN(out.Postgres.DSN)
	return &out
}

// redactDSN masks the password of a URL or key=value connection string
func redactDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsnMask
		}
		if q := u.Query(); q.Has("password") {
			q.Set("password", dsnMask)
			u.RawQuery = q.Encode()
		}
		return u.Redacted()
	}
	return dsnPassword.ReplaceAllString(dsn, "${1}"+dsnMask)
}
