package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"vehiclepass/internal/auth"
	"vehiclepass/internal/vehiclepass/store/sqlite"
)

func TestUserStore_UpsertAndLookup(t *testing.T) {
	ctx := context.Background()
	st := sqlite.NewUserStore(openTestDB(t))

	u := auth.User{Username: "gate1", PasswordHash: "$2a$10$fakehash", Role: auth.RoleValidator}
	if err := st.Upsert(ctx, u); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := st.Lookup(ctx, "gate1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != u {
		t.Fatalf("Lookup = %+v, want %+v", got, u)
	}

	// Upsert replaces the role and hash in place.
	u.Role = auth.RoleAdmin
	u.PasswordHash = "$2a$10$otherhash"
	if err := st.Upsert(ctx, u); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	got, err = st.Lookup(ctx, "gate1")
	if err != nil {
		t.Fatalf("Lookup after upsert: %v", err)
	}
	if got.Role != auth.RoleAdmin || got.PasswordHash != "$2a$10$otherhash" {
		t.Fatalf("Lookup after upsert = %+v", got)
	}
}

func TestUserStore_LookupUnknown(t *testing.T) {
	st := sqlite.NewUserStore(openTestDB(t))

	_, err := st.Lookup(context.Background(), "nobody")
	if !errors.Is(err, auth.ErrUnknownUser) {
		t.Fatalf("err = %v, want ErrUnknownUser", err)
	}
}
