// Package artifact stores the printable token artifacts, one per person.
package artifact

import (
	"context"
	"errors"
)

// ErrNotFound indicates no artifact exists for the person.
var ErrNotFound = errors.New("token artifact not found")

// Store keeps one printable token artifact per person, keyed by the
// person's identity number.  The registry treats artifact writes and
// deletes as best-effort: a failed call is logged, never rolled into the
// record transaction.
type Store interface {
	// Store renders and persists the artifact for payload, replacing any
	// previous one, and returns a locator the boundary layer can show.
	Store(ctx context.Context, personID, payload string) (string, error)
	// Retrieve returns the stored artifact bytes, or ErrNotFound.
	Retrieve(ctx context.Context, personID string) ([]byte, error)
	// Delete removes the artifact.  Deleting a missing artifact is not an
	// error.
	Delete(ctx context.Context, personID string) error
}
