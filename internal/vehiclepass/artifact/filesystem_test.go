package artifact_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"vehiclepass/internal/vehiclepass/artifact"
)

func TestFilesystemStore_StoreRetrieveDelete(t *testing.T) {
	ctx := context.Background()
	st, err := artifact.NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}

	loc, err := st.Store(ctx, "1023456789", "ID: 8000000\nPlaca: ABC123")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if loc == "" {
		t.Fatal("expected a non-empty locator")
	}

	b, err := st.Retrieve(ctx, "1023456789")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	// PNG magic bytes: the artifact is a rendered image, not the payload.
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("expected PNG artifact, got %q...", b[:min(8, len(b))])
	}

	if err := st.Delete(ctx, "1023456789"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Retrieve(ctx, "1023456789"); !errors.Is(err, artifact.ErrNotFound) {
		t.Fatalf("Retrieve after delete err = %v, want ErrNotFound", err)
	}

	// Deleting again is not an error.
	if err := st.Delete(ctx, "1023456789"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestFilesystemStore_RejectsPathyKeys(t *testing.T) {
	ctx := context.Background()
	st, err := artifact.NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}

	for _, key := range []string{"", "../escape", "a/b"} {
		if _, err := st.Store(ctx, key, "payload"); err == nil {
			t.Errorf("Store(%q) succeeded, want error", key)
		}
	}
}
