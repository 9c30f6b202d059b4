// Package prefs stores per-user display preferences such as the avatar.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultAvatar is shown until the user picks another image.
const DefaultAvatar = "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop&crop=face"

// ErrInvalidAvatarURL is returned when an avatar is not an absolute http(s) URL.
var ErrInvalidAvatarURL = errors.New("avatar must be an http or https URL")

var avatarOptions = []string{
	DefaultAvatar,
	"https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop&crop=face",
	"https://images.pexels.com/photos/1239291/pexels-photo-1239291.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop&crop=face",
	"https://images.pexels.com/photos/1222271/pexels-photo-1222271.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop&crop=face",
	"https://images.pexels.com/photos/1130626/pexels-photo-1130626.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop&crop=face",
	"https://images.pexels.com/photos/1043471/pexels-photo-1043471.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop&crop=face",
	"https://images.pexels.com/photos/1212984/pexels-photo-1212984.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop&crop=face",
	"https://images.pexels.com/photos/1300402/pexels-photo-1300402.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop&crop=face",
}

// Store is a string key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// AvatarOptions returns the built-in avatar choices.
func AvatarOptions() []string {
	out := make([]string, len(avatarOptions))
	copy(out, avatarOptions)
	return out
}

func avatarKey(userID string) string {
	return "profile_image_" + userID
}

// Avatar returns the user's saved avatar URL, or DefaultAvatar.
func Avatar(ctx context.Context, s Store, userID string) (string, error) {
	v, ok, err := s.Get(ctx, avatarKey(userID))
	if err != nil {
		return DefaultAvatar, fmt.Errorf("failed to read avatar: %w", err)
	}
	if !ok || v == "" {
		return DefaultAvatar, nil
	}
	return v, nil
}

// SetAvatar saves the user's avatar URL.
func SetAvatar(ctx context.Context, s Store, userID, rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidAvatarURL
	}
	if err := s.Set(ctx, avatarKey(userID), rawURL); err != nil {
		return fmt.Errorf("failed to save avatar: %w", err)
	}
	return nil
}
