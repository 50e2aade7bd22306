package memory

import (
	"context"
	"sync"

	"vehiclepass/internal/vehiclepass/types"
)

// RecordStore keeps the record set in memory.  Intended for tests and dev
// environments; it honors the same full-overwrite Save semantics as the
// durable backends.
type RecordStore struct {
	mu      sync.Mutex
	records []types.ComplianceRecord
}

func NewRecordStore(seed []types.ComplianceRecord) *RecordStore {
	s := &RecordStore{}
	if len(seed) > 0 {
		s.records = append(s.records, seed...)
	}
	return s
}

func (s *RecordStore) Load(_ context.Context) ([]types.ComplianceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ComplianceRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *RecordStore) Save(_ context.Context, records []types.ComplianceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]types.ComplianceRecord, len(records))
	copy(s.records, records)
	return nil
}
