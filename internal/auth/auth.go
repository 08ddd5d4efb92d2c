// Package auth provides password verification and the role policy for the
// inventory tracker. Authorization is decided here, at the boundary; the
// engine below it takes already-authorized actions and never branches on
// role.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
)

// ErrInvalidCredentials is returned when a username/password pair does not
// match a stored account.
var ErrInvalidCredentials = errors.New("invalid username or password")

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticate verifies a username/password pair against the store. A
// missing user and a wrong password return the same error so login
// attempts cannot probe for usernames.
func Authenticate(ctx context.Context, st store.Store, username, password string) (*models.User, error) {
	user, err := st.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
