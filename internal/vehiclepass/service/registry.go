package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"vehiclepass/internal/auth"
	"vehiclepass/internal/vehiclepass/artifact"
	"vehiclepass/internal/vehiclepass/compliance"
	"vehiclepass/internal/vehiclepass/ident"
	"vehiclepass/internal/vehiclepass/store"
	"vehiclepass/internal/vehiclepass/token"
	"vehiclepass/internal/vehiclepass/types"
)

var (
	ErrDuplicateRecord      = errors.New("a record already exists for this person and transport type")
	ErrRecordNotFound       = errors.New("record not found")
	ErrMissingPersonID      = errors.New("person_id is required")
	ErrMissingTransportType = errors.New("transport_type is required")
)

// Registry owns the authoritative record set for the duration of one
// mutating operation.  The store is the source of truth between calls:
// every mutation is a full load→mutate→save cycle, held under one mutex
// because the backends have no native transaction isolation across that
// sequence.
type Registry struct {
	mu        sync.Mutex
	store     store.RecordStore
	artifacts artifact.Store
	logger    *log.Logger
}

func NewRegistry(st store.RecordStore, artifacts artifact.Store, logger *log.Logger) *Registry {
	return &Registry{store: st, artifacts: artifacts, logger: logger}
}

// Create registers a new record.  The id is allocated, the status derived
// from the normalized dates, and a printable token artifact written for
// the person.  Rejects with ErrDuplicateRecord when a live record already
// holds the same (person, transport type) pair.
func (r *Registry) Create(ctx context.Context, p auth.Principal, in types.RecordInput) (types.ComplianceRecord, error) {
	if err := Authorize(p, OpCreateRecord); err != nil {
		return types.ComplianceRecord{}, err
	}

	in = normalizeInput(in)
	if in.PersonID == "" {
		return types.ComplianceRecord{}, ErrMissingPersonID
	}
	if in.TransportType == "" {
		return types.ComplianceRecord{}, ErrMissingTransportType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Load(ctx)
	if err != nil {
		return types.ComplianceRecord{}, err
	}

	if indexByPair(records, in.PersonID, in.TransportType, 0) >= 0 {
		return types.ComplianceRecord{}, ErrDuplicateRecord
	}

	rec := buildRecord(in, ident.NextID(recordIDs(records)), time.Now().UTC())
	records = append(records, rec)

	if err := r.store.Save(ctx, records); err != nil {
		return types.ComplianceRecord{}, err
	}

	r.storeArtifact(ctx, rec)
	return rec, nil
}

// Update replaces the caller-supplied fields of an existing record and
// recomputes its status.  The uniqueness check excludes the record's own
// id, so re-saving a record unchanged is never a duplicate.
func (r *Registry) Update(ctx context.Context, p auth.Principal, id int64, in types.RecordInput) (types.ComplianceRecord, error) {
	if err := Authorize(p, OpUpdateRecord); err != nil {
		return types.ComplianceRecord{}, err
	}

	in = normalizeInput(in)
	if in.PersonID == "" {
		return types.ComplianceRecord{}, ErrMissingPersonID
	}
	if in.TransportType == "" {
		return types.ComplianceRecord{}, ErrMissingTransportType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Load(ctx)
	if err != nil {
		return types.ComplianceRecord{}, err
	}

	idx := indexByID(records, id)
	if idx < 0 {
		return types.ComplianceRecord{}, ErrRecordNotFound
	}
	if indexByPair(records, in.PersonID, in.TransportType, id) >= 0 {
		return types.ComplianceRecord{}, ErrDuplicateRecord
	}

	prevPersonID := records[idx].PersonID
	rec := buildRecord(in, id, time.Now().UTC())
	records[idx] = rec

	if err := r.store.Save(ctx, records); err != nil {
		return types.ComplianceRecord{}, err
	}

	if prevPersonID != rec.PersonID {
		r.dropArtifact(ctx, prevPersonID)
	}
	r.storeArtifact(ctx, rec)
	return rec, nil
}

// Delete removes a record and releases the person's token artifact.  The
// removed record is returned so the caller can report who lost access.
func (r *Registry) Delete(ctx context.Context, p auth.Principal, id int64) (types.ComplianceRecord, error) {
	if err := Authorize(p, OpDeleteRecord); err != nil {
		return types.ComplianceRecord{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Load(ctx)
	if err != nil {
		return types.ComplianceRecord{}, err
	}

	idx := indexByID(records, id)
	if idx < 0 {
		return types.ComplianceRecord{}, ErrRecordNotFound
	}

	removed := records[idx]
	records = append(records[:idx], records[idx+1:]...)

	if err := r.store.Save(ctx, records); err != nil {
		return types.ComplianceRecord{}, err
	}

	r.dropArtifact(ctx, removed.PersonID)
	return removed, nil
}

// DeleteMany removes every listed record that exists and reports how many
// were deleted.  Ids that are not found are skipped, not an error, so the
// operation is idempotent.
func (r *Registry) DeleteMany(ctx context.Context, p auth.Principal, ids []int64) (int, error) {
	if err := Authorize(p, OpDeleteRecord); err != nil {
		return 0, err
	}

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Load(ctx)
	if err != nil {
		return 0, err
	}

	kept := records[:0]
	var removed []types.ComplianceRecord
	for _, rec := range records {
		if _, ok := wanted[rec.ID]; ok {
			removed = append(removed, rec)
			continue
		}
		kept = append(kept, rec)
	}

	if len(removed) == 0 {
		return 0, nil
	}

	if err := r.store.Save(ctx, kept); err != nil {
		return 0, err
	}

	for _, rec := range removed {
		r.dropArtifact(ctx, rec.PersonID)
	}
	return len(removed), nil
}

// List returns a snapshot of all records in insertion order.
func (r *Registry) List(ctx context.Context, p auth.Principal) ([]types.ComplianceRecord, error) {
	if err := Authorize(p, OpListRecords); err != nil {
		return nil, err
	}
	return r.store.Load(ctx)
}

// FindByID returns one record or ErrRecordNotFound.
func (r *Registry) FindByID(ctx context.Context, p auth.Principal, id int64) (types.ComplianceRecord, error) {
	if err := Authorize(p, OpListRecords); err != nil {
		return types.ComplianceRecord{}, err
	}

	records, err := r.store.Load(ctx)
	if err != nil {
		return types.ComplianceRecord{}, err
	}
	idx := indexByID(records, id)
	if idx < 0 {
		return types.ComplianceRecord{}, ErrRecordNotFound
	}
	return records[idx], nil
}

// Token artifacts are best-effort: a failed QR write must not undo a
// committed registry change, so failures are logged and swallowed.
func (r *Registry) storeArtifact(ctx context.Context, rec types.ComplianceRecord) {
	if _, err := r.artifacts.Store(ctx, rec.PersonID, token.Encode(rec)); err != nil {
		r.logger.Printf("token artifact for %s: %v", rec.PersonID, err)
	}
}

func (r *Registry) dropArtifact(ctx context.Context, personID string) {
	if err := r.artifacts.Delete(ctx, personID); err != nil {
		r.logger.Printf("release token artifact for %s: %v", personID, err)
	}
}

// ── Shared helpers ───────────────────────────────────────────────────────────

func normalizeInput(in types.RecordInput) types.RecordInput {
	in.PersonID = normalizePersonID(in.PersonID)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Organization = strings.TrimSpace(in.Organization)
	in.TransportType = strings.TrimSpace(in.TransportType)
	in.Plate = strings.TrimSpace(in.Plate)
	in.PropertyCard = strings.TrimSpace(in.PropertyCard)
	in.LicenseCategories = strings.TrimSpace(in.LicenseCategories)
	in.GeneralExpiry = compliance.NormalizeDate(in.GeneralExpiry)
	in.InsuranceExpiry = compliance.NormalizeDate(in.InsuranceExpiry)
	in.RoadworthinessExpiry = compliance.NormalizeDate(in.RoadworthinessExpiry)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

// buildRecord assembles a record from normalized input.  The status is
// derived here and nowhere else on the write path.
func buildRecord(in types.RecordInput, id int64, now time.Time) types.ComplianceRecord {
	return types.ComplianceRecord{
		ID:                   id,
		Status:               compliance.DeriveStatus(in.InsuranceExpiry, in.RoadworthinessExpiry, now),
		PersonID:             in.PersonID,
		FullName:             in.FullName,
		Organization:         in.Organization,
		TransportType:        in.TransportType,
		Plate:                in.Plate,
		PropertyCard:         in.PropertyCard,
		LicenseCategories:    in.LicenseCategories,
		GeneralExpiry:        in.GeneralExpiry,
		InsuranceExpiry:      in.InsuranceExpiry,
		RoadworthinessExpiry: in.RoadworthinessExpiry,
		Notes:                in.Notes,
	}
}

// indexByPair finds a live record holding the (person, transport type)
// pair, excluding excludeID so updates don't collide with themselves.
func indexByPair(records []types.ComplianceRecord, personID, transportType string, excludeID int64) int {
	for i, rec := range records {
		if rec.ID == excludeID && excludeID != 0 {
			continue
		}
		if rec.PersonID == personID && strings.EqualFold(rec.TransportType, transportType) {
			return i
		}
	}
	return -1
}

func indexByID(records []types.ComplianceRecord, id int64) int {
	for i, rec := range records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func recordIDs(records []types.ComplianceRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = strconv.FormatInt(rec.ID, 10)
	}
	return out
}
