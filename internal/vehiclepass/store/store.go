// Package store defines the persistence contract the registry runs on.
package store

import (
	"context"

	"vehiclepass/internal/vehiclepass/types"
)

// RecordStore is the pluggable persistence backend for the registry.
//
// The registry never keeps durable state in memory: every mutating
// operation loads the full set, mutates it, and saves it back as a unit.
// Load returns the records in insertion order and an empty set (not an
// error) when the backing state does not exist yet.  Save atomically
// replaces the full stored set — it either fully overwrites the prior
// state or fails without corrupting it.
type RecordStore interface {
	Load(ctx context.Context) ([]types.ComplianceRecord, error)
	Save(ctx context.Context, records []types.ComplianceRecord) error
}
