package auth

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tgienger/tasks/internal/db"
)

// setupService builds a Service over a temporary SQLite file. bcrypt runs
// at its minimum cost to keep the tests fast.
func setupService(t *testing.T) (*Service, *db.DB) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	gdb, err := OpenGorm(database.DB)
	require.NoError(t, err)

	svc := NewService(
		NewUserRepository(gdb),
		NewPasswordHasher(bcrypt.MinCost),
		NewTokenManager([]byte("test-secret"), time.Hour),
		database,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return svc, database
}

func TestService_SignUpSignsIn(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, ok := svc.CurrentUser(ctx)
	assert.False(t, ok)

	user, err := svc.SignUp(ctx, "  Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)

	current, ok := svc.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)
	assert.Equal(t, user.Email, current.Email)
}

func TestService_SignUpValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "bad email", email: "not-an-email", password: "secret1", want: ErrInvalidEmail},
		{name: "empty email", email: "", password: "secret1", want: ErrInvalidEmail},
		{name: "short password", email: "a@example.com", password: "12345", want: ErrWeakPassword},
		{name: "long password", email: "a@example.com", password: string(make([]byte, 73)), want: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_SignUpDuplicate(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "bob@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "BOB@example.com", "another1")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_SignInAndOut(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "carol@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx))

	_, ok := svc.CurrentUser(ctx)
	assert.False(t, ok)

	_, err = svc.SignIn(ctx, "carol@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.SignIn(ctx, "carol@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	current, ok := svc.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, created.ID, current.ID)

	// signing out twice is harmless
	require.NoError(t, svc.SignOut(ctx))
	require.NoError(t, svc.SignOut(ctx))
}

func TestService_TamperedSessionIsIgnored(t *testing.T) {
	svc, database := setupService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "dave@example.com", "secret1")
	require.NoError(t, err)

	forged, err := NewTokenManager([]byte("other-secret"), time.Hour).Generate("someone", "x@example.com")
	require.NoError(t, err)
	require.NoError(t, database.SetSetting(ctx, sessionKey, forged))

	_, ok := svc.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestEnsureSecretIsStable(t *testing.T) {
	_, database := setupService(t)
	ctx := context.Background()

	first, err := EnsureSecret(ctx, database)
	require.NoError(t, err)
	assert.Len(t, first, 32)

	second, err := EnsureSecret(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
