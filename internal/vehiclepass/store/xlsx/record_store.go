// Package xlsx persists the registry in an Excel workbook, keeping the
// sheet and column layout the field operation's original workbooks used so
// the file stays readable in a spreadsheet next to this system.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"vehiclepass/internal/vehiclepass/types"
)

// SheetName is the worksheet holding the record set.
const SheetName = "BASE"

// header is the fixed column order of the sheet.
var header = []string{
	"ID",
	"ESTADO",
	"CEDULA",
	"NOMBRES Y APELLIDOS",
	"EMPRESA",
	"TIPO DE TRANSPORTE",
	"PLACA",
	"NUMERO DE TARJETA DE PROPIEDAD",
	"CATEGORIA(S)",
	"FECHA DE VENCIMIENTO",
	"SOAT",
	"TECNOMECANICA",
	"OBSERVACIONES",
}

// RecordStore reads and writes the workbook at a fixed path.  Save builds
// a fresh workbook and renames it over the old one, so a crash mid-save
// never corrupts the previous state.
type RecordStore struct {
	path string
}

func NewRecordStore(path string) *RecordStore {
	return &RecordStore{path: path}
}

func (s *RecordStore) Load(_ context.Context) ([]types.ComplianceRecord, error) {
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		// Not created yet: empty registry, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(SheetName); idx < 0 {
		return nil, nil
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", SheetName, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([]types.ComplianceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := recordFromRow(row)
		if rec.PersonID == "" && rec.ID == 0 {
			// Fully blank trailing row, common in hand-edited workbooks.
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RecordStore) Save(_ context.Context, records []types.ComplianceRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d cell: %w", i, err)
		}
		row := []interface{}{
			rec.ID,
			string(rec.Status),
			rec.PersonID,
			rec.FullName,
			rec.Organization,
			rec.TransportType,
			rec.Plate,
			rec.PropertyCard,
			rec.LicenseCategories,
			rec.GeneralExpiry,
			rec.InsuranceExpiry,
			rec.RoadworthinessExpiry,
			rec.Notes,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	// SaveAs rejects extensions it doesn't recognize, so the temp file
	// must keep an .xlsx suffix.
	tmp := s.path + ".tmp.xlsx"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

func recordFromRow(row []string) types.ComplianceRecord {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	// Junk in the ID column is tolerated: the allocator ignores ids that
	// don't parse, so a legacy row never blocks new registrations.
	id, _ := strconv.ParseInt(cell(0), 10, 64)

	return types.ComplianceRecord{
		ID:                   id,
		Status:               types.Status(cell(1)),
		PersonID:             cell(2),
		FullName:             cell(3),
		Organization:         cell(4),
		TransportType:        cell(5),
		Plate:                cell(6),
		PropertyCard:         cell(7),
		LicenseCategories:    cell(8),
		GeneralExpiry:        cell(9),
		InsuranceExpiry:      cell(10),
		RoadworthinessExpiry: cell(11),
		Notes:                cell(12),
	}
}
