// Package batch turns an uploaded spreadsheet into the raw rows the
// importer reconciles.  Parsing here is deliberately forgiving at the row
// level — per-row problems are the importer's to count — but a workbook
// that cannot be read at all is a batch-level error and aborts the import.
package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"vehiclepass/internal/vehiclepass/types"
)

// columns maps normalized header names to RawRow field setters.  The
// header set matches the workbooks the field operation circulates.
var columns = map[string]func(*types.RawRow, string){
	"CEDULA":                         func(r *types.RawRow, v string) { r.PersonID = v },
	"NOMBRES Y APELLIDOS":            func(r *types.RawRow, v string) { r.FullName = v },
	"EMPRESA":                        func(r *types.RawRow, v string) { r.Organization = v },
	"TIPO DE TRANSPORTE":             func(r *types.RawRow, v string) { r.TransportType = v },
	"PLACA":                          func(r *types.RawRow, v string) { r.Plate = v },
	"NUMERO DE TARJETA DE PROPIEDAD": func(r *types.RawRow, v string) { r.PropertyCard = v },
	"CATEGORIA(S)":                   func(r *types.RawRow, v string) { r.LicenseCategories = v },
	"FECHA DE VENCIMIENTO":           func(r *types.RawRow, v string) { r.GeneralExpiry = v },
	"SOAT":                           func(r *types.RawRow, v string) { r.InsuranceExpiry = v },
	"TECNOMECANICA":                  func(r *types.RawRow, v string) { r.RoadworthinessExpiry = v },
	"OBSERVACIONES":                  func(r *types.RawRow, v string) { r.Notes = v },
}

// ParseWorkbook reads an uploaded workbook and extracts candidate rows.
// The "BASE" sheet is preferred when present, otherwise the first sheet is
// used.  Headers are matched case-insensitively; unknown columns are
// ignored.
func ParseWorkbook(r io.Reader) ([]types.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if strings.EqualFold(s, "BASE") {
			sheet = s
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", sheet)
	}

	setters := make(map[int]func(*types.RawRow, string))
	for i, name := range rows[0] {
		if set, ok := columns[strings.ToUpper(strings.TrimSpace(name))]; ok {
			setters[i] = set
		}
	}
	if len(setters) == 0 {
		return nil, fmt.Errorf("sheet %s has no recognized columns", sheet)
	}

	out := make([]types.RawRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		var row types.RawRow
		empty := true
		for i, cell := range cells {
			set, ok := setters[i]
			if !ok {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				empty = false
			}
			set(&row, cell)
		}
		if empty {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
