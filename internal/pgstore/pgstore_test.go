package pgstore

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/tgienger/tasks/internal/models"
	"github.com/tgienger/tasks/internal/tasks"
)

var _ tasks.Store = (*Store)(nil)

// dockerAvailable checks whether the Docker daemon is reachable.
// testcontainers-go panics when Docker is not installed.
func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	if !dockerAvailable() {
		t.Skip("Docker not available, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("tasks"),
		postgres.WithUsername("tasks"),
		postgres.WithPassword("tasks"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := Open(ctx, dsn, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := models.Date{Year: 2026, Month: time.December, Day: 24}
	first, err := store.Insert(ctx, "alice", models.Draft{Title: "wrap gifts", Priority: models.PriorityHigh, DueDate: &due})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	require.NotNil(t, first.DueDate)
	assert.Equal(t, due, *first.DueDate)

	second, err := store.Insert(ctx, "alice", models.Draft{Title: "send cards"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, "bob", models.Draft{Title: "not alice's"})
	require.NoError(t, err)

	list, err := store.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	done := true
	later := time.Now().Add(time.Hour)
	updated, err := store.Update(ctx, "alice", first.ID, models.Patch{Completed: &done, ClearDueDate: true}, later)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Nil(t, updated.DueDate)
	assert.WithinDuration(t, later, updated.UpdatedAt, time.Millisecond)

	_, err = store.Update(ctx, "alice", "00000000-0000-0000-0000-000000000000", models.Patch{Completed: &done}, later)
	assert.ErrorIs(t, err, ErrNotFound)

	// another owner, or an id that is not a UUID, cannot reach the row
	_, err = store.Update(ctx, "bob", first.ID, models.Patch{Completed: &done}, later)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Update(ctx, "alice", "not-a-uuid", models.Patch{Completed: &done}, later)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, store.Delete(ctx, "bob", first.ID))
	require.NoError(t, store.Delete(ctx, "alice", "not-a-uuid"))
	list, err = store.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, store.Delete(ctx, "alice", first.ID))
	require.NoError(t, store.Delete(ctx, "alice", first.ID))
	list, err = store.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
