package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vehiclepass/internal/auth"
)

// UserStore reads and provisions auth users.  Writes go straight through
// the connection: user changes are rare admin actions, not part of the
// registry's serialized save path.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Lookup(ctx context.Context, username string) (auth.User, error) {
	var u auth.User
	var role string
	err := s.db.QueryRowContext(ctx, `
SELECT username, password_hash, role
FROM users
WHERE username = ?;
`, username).Scan(&u.Username, &u.PasswordHash, &role)

	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrUnknownUser
	}
	if err != nil {
		return auth.User{}, fmt.Errorf("lookup user: %w", err)
	}
	u.Role = auth.Role(role)
	return u, nil
}

// Upsert creates or replaces a user entry.  Used by the provisioning CLI.
func (s *UserStore) Upsert(ctx context.Context, u auth.User) error {
	now := time.Now().UTC().UnixMilli()
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO users(username, password_hash, role, created_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT(username) DO UPDATE SET
  password_hash = excluded.password_hash,
  role          = excluded.role;
`, u.Username, u.PasswordHash, string(u.Role), now); err != nil {
		return fmt.Errorf("upsert user %s: %w", u.Username, err)
	}
	return nil
}
