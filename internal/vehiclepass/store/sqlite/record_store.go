package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	dbpkg "vehiclepass/internal/db"
	"vehiclepass/internal/vehiclepass/types"
)

// RecordStore persists the registry's record set in SQLite.  Save rewrites
// the records table in one transaction, which gives the full-overwrite
// semantics the registry's load→mutate→save cycle relies on.
type RecordStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewRecordStore(db *sql.DB, writer *dbpkg.Worker) *RecordStore {
	return &RecordStore{db: db, writer: writer}
}

func (s *RecordStore) Load(ctx context.Context) ([]types.ComplianceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT record_id, status, person_id, full_name, organization, transport_type,
       plate, property_card, license_categories,
       general_expiry, insurance_expiry, roadworthiness_expiry, notes
FROM records
ORDER BY position;
`)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var out []types.ComplianceRecord
	for rows.Next() {
		var rec types.ComplianceRecord
		var status string
		if err := rows.Scan(
			&rec.ID, &status, &rec.PersonID, &rec.FullName, &rec.Organization,
			&rec.TransportType, &rec.Plate, &rec.PropertyCard,
			&rec.LicenseCategories, &rec.GeneralExpiry, &rec.InsuranceExpiry,
			&rec.RoadworthinessExpiry, &rec.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Status = types.Status(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func (s *RecordStore) Save(ctx context.Context, records []types.ComplianceRecord) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records;`); err != nil {
			return fmt.Errorf("clear records: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records(
  position, record_id, status, person_id, full_name, organization,
  transport_type, plate, property_card, license_categories,
  general_expiry, insurance_expiry, roadworthiness_expiry, notes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, rec := range records {
			if _, err := stmt.ExecContext(ctx,
				i, rec.ID, string(rec.Status), rec.PersonID, rec.FullName,
				rec.Organization, rec.TransportType, rec.Plate,
				rec.PropertyCard, rec.LicenseCategories, rec.GeneralExpiry,
				rec.InsuranceExpiry, rec.RoadworthinessExpiry, rec.Notes,
			); err != nil {
				return fmt.Errorf("insert record %d: %w", rec.ID, err)
			}
		}
		return nil
	})
}
