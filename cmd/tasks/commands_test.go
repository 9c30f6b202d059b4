package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/tasks/internal/config"
	"github.com/tgienger/tasks/internal/models"
)

func TestResolveTask(t *testing.T) {
	list := []models.Task{
		{ID: "a1b2c3d4-0000", Title: "first"},
		{ID: "a1b2ffff-0000", Title: "second"},
		{ID: "ffff0000-0000", Title: "third"},
	}

	got, err := resolveTask(list, "ffff")
	require.NoError(t, err)
	assert.Equal(t, "third", got.Title)

	got, err = resolveTask(list, "a1b2c3d4-0000")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)

	_, err = resolveTask(list, "a1b2")
	assert.ErrorContains(t, err, "matches 2 tasks")

	_, err = resolveTask(list, "zzz")
	assert.ErrorContains(t, err, "no task matches")

	_, err = resolveTask(list, " ")
	assert.Error(t, err)
}

func TestBuildDraft(t *testing.T) {
	d, err := buildDraft("Buy milk", "", "high", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, d.Priority)
	require.NotNil(t, d.DueDate)
	assert.Equal(t, "2026-03-01", d.DueDate.String())

	_, err = buildDraft("   ", "", "low", "")
	assert.ErrorIs(t, err, models.ErrEmptyTitle)

	_, err = buildDraft("x", "", "urgent", "")
	assert.ErrorIs(t, err, models.ErrInvalidPriority)

	_, err = buildDraft("x", "", "low", "03/01/2026")
	assert.Error(t, err)
}

func TestPrintTasks(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := models.Date{Year: 2026, Month: time.March, Day: 1}
	list := []models.Task{
		{ID: "0123456789ab", Title: "late", Priority: models.PriorityHigh, DueDate: &past},
		{ID: "ba9876543210", Title: "done", Priority: models.PriorityLow, Completed: true, DueDate: &past},
	}

	var buf bytes.Buffer
	require.NoError(t, printTasks(&buf, list, now))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "01234567")
	assert.Contains(t, lines[1], "(overdue)")
	assert.NotContains(t, lines[2], "(overdue)")
}

func TestRootCommandTree(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"list", "add", "edit", "done", "rm", "stats", "signup", "login", "logout", "whoami", "avatar", "config", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "tasks dev")
}

func TestConfigShowMasksSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "backend: postgres\npostgres:\n  dsn: postgres://me:s3cret@db:5432/tasks\nauth:\n  secret: topsecret\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "show", "--config", path})
	require.NoError(t, root.Execute())

	assert.NotContains(t, out.String(), "s3cret")
	assert.NotContains(t, out.String(), "topsecret")
	assert.Contains(t, out.String(), "postgres://me:xxxxx@db:5432/tasks")
}

func TestLogLevelFlagIsValidated(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := setup(context.Background(), &globalFlags{logLevel: "verbose"})
	assert.ErrorContains(t, err, "verbose")

	cfg, err := loadConfig(config.NewLoader(nil), &globalFlags{logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}
