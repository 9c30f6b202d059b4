package prefs

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/tgienger/tasks/internal/db"
)

var (
	_ Store = (*SettingsStore)(nil)
	_ Store = (*RedisStore)(nil)
)

func setupSettingsStore(t *testing.T) *SettingsStore {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewSettingsStore(database)
}

func TestAvatar_DefaultsUntilSet(t *testing.T) {
	store := setupSettingsStore(t)
	ctx := context.Background()

	got, err := Avatar(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, DefaultAvatar, got)

	choice := AvatarOptions()[3]
	require.NoError(t, SetAvatar(ctx, store, "u1", choice))

	got, err = Avatar(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, choice, got)

	// avatars are per user
	got, err = Avatar(ctx, store, "u2")
	require.NoError(t, err)
	assert.Equal(t, DefaultAvatar, got)
}

func TestSetAvatar_RejectsBadURLs(t *testing.T) {
	store := setupSettingsStore(t)
	ctx := context.Background()

	for _, raw := range []string{"", "not a url", "ftp://example.com/a.png", "/relative/path.png", "https://"} {
		t.Run(raw, func(t *testing.T) {
			assert.ErrorIs(t, SetAvatar(ctx, store, "u1", raw), ErrInvalidAvatarURL)
		})
	}

	got, err := Avatar(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, DefaultAvatar, got)
}

func TestAvatarOptionsIsACopy(t *testing.T) {
	opts := AvatarOptions()
	require.NotEmpty(t, opts)
	assert.Equal(t, DefaultAvatar, opts[0])

	opts[0] = "changed"
	assert.Equal(t, DefaultAvatar, AvatarOptions()[0])
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Redis integration test in short mode")
	}
	if exec.Command("docker", "info").Run() != nil {
		t.Skip("Docker not available, skipping Redis integration tests")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("failed to start Redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client, err := DialRedis(ctx, opts.Addr)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client, "tasks:test:")

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetAvatar(ctx, store, "u1", AvatarOptions()[1]))
	got, err := Avatar(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, AvatarOptions()[1], got)

	raw, err := client.Get(ctx, "tasks:test:profile_image_u1").Result()
	require.NoError(t, err)
	assert.Equal(t, AvatarOptions()[1], raw)
}
