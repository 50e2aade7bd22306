package service

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"vehiclepass/internal/auth"
	"vehiclepass/internal/vehiclepass/ident"
	"vehiclepass/internal/vehiclepass/types"
)

// Importer reconciles an externally supplied batch of rows into the
// registry without creating duplicates.  It shares the registry's store
// and lock so a running import and a direct registration can never
// interleave their load→mutate→save cycles.
type Importer struct {
	registry *Registry
	logger   *log.Logger
}

func NewImporter(registry *Registry, logger *log.Logger) *Importer {
	return &Importer{registry: registry, logger: logger}
}

// ImportBatch processes rows independently: a row is skipped (counted,
// never fatal) when it misses a required field or duplicates the
// (person, transport type) pair of the working set — which includes rows
// accepted earlier in the same batch.  The merged set is persisted once at
// the end; nothing is persisted when the save fails.
func (im *Importer) ImportBatch(ctx context.Context, p auth.Principal, rows []types.RawRow) (types.ImportResult, error) {
	if err := Authorize(p, OpImportBatch); err != nil {
		return types.ImportResult{}, err
	}

	r := im.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	working, err := r.store.Load(ctx)
	if err != nil {
		return types.ImportResult{}, err
	}

	now := time.Now().UTC()
	var res types.ImportResult
	var added []types.ComplianceRecord

	for _, row := range rows {
		in := normalizeInput(types.RecordInput{
			PersonID:             row.PersonID,
			FullName:             row.FullName,
			Organization:         row.Organization,
			TransportType:        row.TransportType,
			Plate:                row.Plate,
			PropertyCard:         row.PropertyCard,
			LicenseCategories:    row.LicenseCategories,
			GeneralExpiry:        row.GeneralExpiry,
			InsuranceExpiry:      row.InsuranceExpiry,
			RoadworthinessExpiry: row.RoadworthinessExpiry,
			Notes:                row.Notes,
		})

		if in.PersonID == "" || in.TransportType == "" {
			res.Skipped++
			continue
		}
		if indexByPair(working, in.PersonID, in.TransportType, 0) >= 0 {
			res.Skipped++
			continue
		}

		rec := buildRecord(in, ident.NextID(recordIDs(working)), now)
		working = append(working, rec)
		added = append(added, rec)
		res.Accepted++
	}

	if res.Accepted == 0 {
		return res, nil
	}

	if err := r.store.Save(ctx, working); err != nil {
		return types.ImportResult{}, err
	}

	for _, rec := range added {
		r.storeArtifact(ctx, rec)
	}

	im.logger.Printf("import: accepted=%d skipped=%d", res.Accepted, res.Skipped)
	return res, nil
}

// normalizePersonID canonicalizes an identity number that may arrive as a
// float-formatted spreadsheet cell ("1023456789.0").  Anything that isn't
// a whole number in float clothing is returned as typed.
func normalizePersonID(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
