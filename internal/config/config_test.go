package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(env map[string]string) *Loader {
	l := NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.getenv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return l
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, BackendSQLite, cfg.Preferences.Backend)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "unknown backend", modify: func(c *Config) { c.Backend = "mysql" }, wantErr: true},
		{name: "postgres without dsn", modify: func(c *Config) { c.Backend = BackendPostgres }, wantErr: true},
		{
			name: "postgres with dsn",
			modify: func(c *Config) {
				c.Backend = BackendPostgres
				c.Postgres.DSN = "postgres://localhost/tasks"
			},
		},
		{name: "unknown preferences backend", modify: func(c *Config) { c.Preferences.Backend = "memcached" }, wantErr: true},
		{
			name: "redis without addr",
			modify: func(c *Config) {
				c.Preferences.Backend = BackendRedis
				c.Preferences.RedisAddr = ""
			},
			wantErr: true,
		},
		{name: "zero session ttl", modify: func(c *Config) { c.Auth.SessionTTL = 0 }, wantErr: true},
		{name: "bad log level", modify: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "bad log format", modify: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_FileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir: /tmp/tasks-data
backend: postgres
postgres:
  dsn: postgres://u:p@localhost:5432/tasks
auth:
  session_ttl: 2h
log:
  level: debug
`)

	cfg, err := testLoader(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tasks-data", cfg.DataDir)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, "postgres://u:p@localhost:5432/tasks", cfg.Postgres.DSN)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, BackendSQLite, cfg.Preferences.Backend)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	cfg, err := testLoader(map[string]string{
		"TASKS_LOG_LEVEL":           "error",
		"TASKS_PREFERENCES_BACKEND": "redis",
		"TASKS_REDIS_ADDR":          "cache:6379",
		"TASKS_SESSION_TTL":         "15m",
	}).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, BackendRedis, cfg.Preferences.Backend)
	assert.Equal(t, "cache:6379", cfg.Preferences.RedisAddr)
	assert.Equal(t, 15*time.Minute, cfg.Auth.SessionTTL)
}

func TestLoad_Errors(t *testing.T) {
	_, err := testLoader(nil).Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = testLoader(nil).Load(writeConfig(t, "backend: [nope"))
	assert.Error(t, err)

	_, err = testLoader(nil).Load(writeConfig(t, "backend: oracle\n"))
	assert.Error(t, err)

	_, err = testLoader(map[string]string{"TASKS_SESSION_TTL": "forever"}).Load(writeConfig(t, ""))
	assert.Error(t, err)
}

func TestLoad_OverridesAreValidated(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")
	loader := testLoader(map[string]string{"TASKS_LOG_LEVEL": "error"})

	cfg, err := loader.Load(path, WithLogLevel("debug"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	cfg, err = loader.Load(path, WithLogLevel(""))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)

	_, err = loader.Load(path, WithLogLevel("verbose"))
	assert.ErrorContains(t, err, "verbose")
}

func TestRedacted(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"url", "postgres://me:s3cret@db:5432/tasks", "postgres://me:xxxxx@db:5432/tasks"},
		{"url without password", "postgres://me@db/tasks", "postgres://me@db/tasks"},
		{"key value", "host=db user=me password=s3cret dbname=tasks", "host=db user=me password=xxxxx dbname=tasks"},
		{"quoted key value", "host=db password='s3 cret' dbname=tasks", "host=db password=xxxxx dbname=tasks"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Postgres.DSN = tt.dsn
			cfg.Auth.Secret = "topsecret"

			got := cfg.Redacted()
			assert.Equal(t, tt.want, got.Postgres.DSN)
			assert.Equal(t, "********", got.Auth.Secret)
			assert.Equal(t, tt.dsn, cfg.Postgres.DSN)
			assert.Equal(t, "topsecret", cfg.Auth.Secret)
		})
	}

	cfg := DefaultConfig()
	cfg.Postgres.DSN = "postgres://db/tasks?sslmode=disable&password=s3cret"
	assert.NotContains(t, cfg.Redacted().Postgres.DSN, "s3cret")
}

func TestLoad_MissingUserConfigIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := testLoader(nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestEnsureUserConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := testLoader(nil).EnsureUserConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tasks", "config.yaml"), path)

	cfg, err := testLoader(nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
