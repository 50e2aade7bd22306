package service_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"vehiclepass/internal/vehiclepass/artifact"
	"vehiclepass/internal/vehiclepass/service"
	"vehiclepass/internal/vehiclepass/store/memory"
	"vehiclepass/internal/vehiclepass/types"
)

func newTestImporter(t *testing.T) (*service.Registry, *service.Importer, *artifact.MemoryStore) {
	t.Helper()

	artifacts := artifact.NewMemoryStore()
	logger := log.New(io.Discard, "", 0)
	reg := service.NewRegistry(memory.NewRecordStore(nil), artifacts, logger)
	return reg, service.NewImporter(reg, logger), artifacts
}

func validRow(personID string) types.RawRow {
	return types.RawRow{
		PersonID:             personID,
		FullName:             "Maria Lopez",
		TransportType:        "camioneta",
		Plate:                "ABC123",
		InsuranceExpiry:      "2099-01-01",
		RoadworthinessExpiry: "2099-01-01",
	}
}

func TestImportBatch_DuplicateWithinBatchSkipped(t *testing.T) {
	_, im, _ := newTestImporter(t)

	rows := []types.RawRow{
		validRow("111"),
		validRow("111"), // duplicates row 1's (person, transport) pair
		validRow("222"),
	}

	res, err := im.ImportBatch(context.Background(), admin, rows)
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if res.Accepted != 2 || res.Skipped != 1 {
		t.Fatalf("result = %+v, want accepted=2 skipped=1", res)
	}
}

func TestImportBatch_DuplicateAgainstRegistrySkipped(t *testing.T) {
	reg, im, _ := newTestImporter(t)
	ctx := context.Background()

	in := validInput()
	in.PersonID = "111"
	if _, err := reg.Create(ctx, admin, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := im.ImportBatch(ctx, admin, []types.RawRow{validRow("111"), validRow("222")})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if res.Accepted != 1 || res.Skipped != 1 {
		t.Fatalf("result = %+v, want accepted=1 skipped=1", res)
	}
}

func TestImportBatch_MalformedRowSkippedNotFatal(t *testing.T) {
	_, im, _ := newTestImporter(t)

	rows := []types.RawRow{
		{FullName: "No Person ID", TransportType: "moto"},
		{PersonID: "333"}, // missing transport type
		validRow("444"),
	}

	res, err := im.ImportBatch(context.Background(), admin, rows)
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if res.Accepted != 1 || res.Skipped != 2 {
		t.Fatalf("result = %+v, want accepted=1 skipped=2", res)
	}
}

func TestImportBatch_NormalizesFloatPersonIDs(t *testing.T) {
	reg, im, artifacts := newTestImporter(t)
	ctx := context.Background()

	row := validRow("1023456789.0")
	res, err := im.ImportBatch(ctx, admin, []types.RawRow{row})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if res.Accepted != 1 {
		t.Fatalf("result = %+v, want accepted=1", res)
	}

	records, err := reg.List(ctx, admin)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if records[0].PersonID != "1023456789" {
		t.Fatalf("person id = %q, want 1023456789", records[0].PersonID)
	}
	if !artifacts.Has("1023456789") {
		t.Error("expected token artifact keyed by the normalized person id")
	}

	// The normalized id participates in dedup: the plain form collides.
	res, err = im.ImportBatch(ctx, admin, []types.RawRow{validRow("1023456789")})
	if err != nil {
		t.Fatalf("second ImportBatch: %v", err)
	}
	if res.Accepted != 0 || res.Skipped != 1 {
		t.Fatalf("second result = %+v, want accepted=0 skipped=1", res)
	}
}

func TestImportBatch_UnparseableDatesForceInactive(t *testing.T) {
	reg, im, _ := newTestImporter(t)
	ctx := context.Background()

	row := validRow("555")
	row.InsuranceExpiry = "vencido"
	res, err := im.ImportBatch(ctx, admin, []types.RawRow{row})
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if res.Accepted != 1 {
		t.Fatalf("result = %+v, want accepted=1", res)
	}

	records, err := reg.List(ctx, admin)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	rec := records[0]
	if rec.InsuranceExpiry != "" {
		t.Errorf("insurance expiry = %q, want empty", rec.InsuranceExpiry)
	}
	if rec.Status != types.StatusInactive {
		t.Errorf("status = %s, want %s", rec.Status, types.StatusInactive)
	}
}

func TestImportBatch_IDsContinueFromRegistryMax(t *testing.T) {
	reg, im, _ := newTestImporter(t)
	ctx := context.Background()

	rec, err := reg.Create(ctx, admin, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := im.ImportBatch(ctx, admin, []types.RawRow{validRow("666"), validRow("777")}); err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}

	records, err := reg.List(ctx, admin)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("listed %d records, want 3", len(records))
	}
	if records[1].ID != rec.ID+1 || records[2].ID != rec.ID+2 {
		t.Fatalf("imported ids = %d, %d; want %d, %d",
			records[1].ID, records[2].ID, rec.ID+1, rec.ID+2)
	}
}

func TestImportBatch_RequiresAdmin(t *testing.T) {
	_, im, _ := newTestImporter(t)

	_, err := im.ImportBatch(context.Background(), validator, []types.RawRow{validRow("888")})
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}
