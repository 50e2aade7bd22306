// Package auth supplies the authenticated principal the core's
// access-controlled operations take as input.  Credential storage and
// verification live here, outside the registry itself.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role is the coarse permission level attached to a principal.
type Role string

const (
	// RoleAdmin may manage records and run imports.
	RoleAdmin Role = "admin"
	// RoleValidator may only validate scanned tokens at a checkpoint.
	RoleValidator Role = "validator"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleValidator
}

// Principal is the authenticated actor performing an operation.
type Principal struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// User is one stored credential entry.
type User struct {
	Username     string
	PasswordHash string // bcrypt
	Role         Role
}

var (
	ErrUnknownUser        = errors.New("unknown user")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore is the credential backend the Authenticator reads from.
type UserStore interface {
	Lookup(ctx context.Context, username string) (User, error)
}

// Authenticator verifies username/password pairs against bcrypt hashes.
type Authenticator struct {
	users UserStore
}

func NewAuthenticator(users UserStore) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate returns the principal for a valid credential pair.  Unknown
// users and wrong passwords both come back as ErrInvalidCredentials so the
// boundary cannot leak which usernames exist.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Principal{}, ErrInvalidCredentials
	}

	u, err := a.users.Lookup(ctx, username)
	if errors.Is(err, ErrUnknownUser) {
		return Principal{}, ErrInvalidCredentials
	}
	if err != nil {
		return Principal{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Username: u.Username, Role: u.Role}, nil
}

// HashPassword produces the bcrypt hash stored alongside a user.  Used by
// the provisioning CLI and the dev seeder.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
