// Package auth is the session provider: it registers accounts, signs users
// in and remembers the signed-in user between runs.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tgienger/tasks/internal/models"
)

var (
	// ErrInvalidCredentials is returned when sign-in credentials are invalid.
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("Please enter a valid email")
	// ErrWeakPassword is returned when password is too short.
	ErrWeakPassword = errors.New("Password must be at least 6 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("Password must be at most 72 characters")
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input limit.
	MaxPasswordLength = 72

	sessionKey = "session_token"
	secretKey  = "auth_secret"
)

// SettingsStore persists small string values between runs.
type SettingsStore interface {
	LookupSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

// Service handles sign-up, sign-in, sign-out and the current session.
type Service struct {
	users    *UserRepository
	hasher   *PasswordHasher
	tokens   *TokenManager
	settings SettingsStore
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(users *UserRepository, hasher *PasswordHasher, tokens *TokenManager, settings SettingsStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		settings: settings,
		logger:   logger,
	}
}

// SignUp creates an account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Created account", slog.String("user_id", user.ID))
	return s.startSession(ctx, user)
}

// SignIn checks the credentials and starts a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// SignOut forgets the stored session.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.settings.DeleteSetting(ctx, sessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user, or false when there is no valid
// session.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, bool) {
	token, ok, err := s.settings.LookupSetting(ctx, sessionKey)
	if err != nil {
		s.logger.Warn("Failed to read session", slog.Any("error", err))
		return nil, false
	}
	if !ok || token == "" {
		return nil, false
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug("Discarding stored session", slog.Any("error", err))
		return nil, false
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		s.logger.Debug("Session user no longer exists", slog.String("user_id", claims.UserID))
		return nil, false
	}
	return toModel(user), true
}

func (s *Service) startSession(ctx context.Context, user *User) (*models.User, error) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	if err := s.settings.SetSetting(ctx, sessionKey, token); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return toModel(user), nil
}

// EnsureSecret returns the persisted token signing secret, generating one on
// first use.
func EnsureSecret(ctx context.Context, settings SettingsStore) ([]byte, error) {
	stored, ok, err := settings.LookupSetting(ctx, secretKey)
	if err != nil {
		return nil, err
	}
	if ok {
		return hex.DecodeString(stored)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	if err := settings.SetSetting(ctx, secretKey, hex.EncodeToString(secret)); err != nil {
		return nil, err
	}
	return secret, nil
}

func validateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toModel(u *User) *models.User {
	return &models.User{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
