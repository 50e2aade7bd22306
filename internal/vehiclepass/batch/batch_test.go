package batch_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"vehiclepass/internal/vehiclepass/batch"
)

// buildWorkbook renders a single-sheet workbook from a header row plus data
// rows and returns the serialized bytes.
func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestParseWorkbook_MapsColumns(t *testing.T) {
	wb := buildWorkbook(t, "BASE", [][]interface{}{
		{"CEDULA", "NOMBRES Y APELLIDOS", "TIPO DE TRANSPORTE", "PLACA", "SOAT", "TECNOMECANICA"},
		{"1023456789", "Maria Lopez", "camioneta", "ABC123", "2026-01-15", "2026-02-20"},
		{"900112233", "Juan Perez", "moto", "XYZ98A", "", ""},
	})

	rows, err := batch.ParseWorkbook(bytes.NewReader(wb))
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.PersonID != "1023456789" || first.FullName != "Maria Lopez" ||
		first.TransportType != "camioneta" || first.Plate != "ABC123" ||
		first.InsuranceExpiry != "2026-01-15" || first.RoadworthinessExpiry != "2026-02-20" {
		t.Fatalf("unexpected first row %+v", first)
	}
}

func TestParseWorkbook_HeaderCaseInsensitive(t *testing.T) {
	wb := buildWorkbook(t, "Hoja1", [][]interface{}{
		{"cedula", "placa"},
		{"111", "AAA111"},
	})

	rows, err := batch.ParseWorkbook(bytes.NewReader(wb))
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(rows) != 1 || rows[0].PersonID != "111" || rows[0].Plate != "AAA111" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestParseWorkbook_SkipsBlankRows(t *testing.T) {
	wb := buildWorkbook(t, "BASE", [][]interface{}{
		{"CEDULA", "PLACA"},
		{"", ""},
		{"222", "BBB222"},
	})

	rows, err := batch.ParseWorkbook(bytes.NewReader(wb))
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(rows) != 1 || rows[0].PersonID != "222" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestParseWorkbook_GarbageInput(t *testing.T) {
	if _, err := batch.ParseWorkbook(strings.NewReader("this is not a workbook")); err == nil {
		t.Fatal("expected error for non-workbook input")
	}
}

func TestParseWorkbook_NoRecognizedColumns(t *testing.T) {
	wb := buildWorkbook(t, "BASE", [][]interface{}{
		{"FOO", "BAR"},
		{"1", "2"},
	})

	if _, err := batch.ParseWorkbook(bytes.NewReader(wb)); err == nil {
		t.Fatal("expected error for unrecognized header")
	}
}
