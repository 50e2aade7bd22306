package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vehiclepass/internal/auth"
)

// devUsers are the accounts created in dev so the server is usable
// immediately after first start.  Never seeded in prod.
var devUsers = []struct {
	username string
	password string
	role     auth.Role
}{
	{"admin", "admin", auth.RoleAdmin},
	{"checkpoint", "checkpoint", auth.RoleValidator},
}

// SeedDev provisions the dev accounts.  Existing rows are left untouched
// so a dev who changed a password keeps it across restarts.
func SeedDev(ctx context.Context, db *sql.DB) error {
	now := time.Now().UTC().UnixMilli()

	for _, u := range devUsers {
		var exists int
		err := db.QueryRowContext(ctx,
			"SELECT 1 FROM users WHERE username = ?;", u.username,
		).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("seed check %s: %w", u.username, err)
		}

		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("seed hash %s: %w", u.username, err)
		}
		if _, err := db.ExecContext(ctx, `
INSERT INTO users(username, password_hash, role, created_at_ms)
VALUES (?, ?, ?, ?);
`, u.username, hash, string(u.role), now); err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	return nil
}
