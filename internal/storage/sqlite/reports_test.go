package sqlite

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/yegors/flightstats/pkg/logger"
)

func newTestStorage(t *testing.T) *ReportStorage {
	t.Helper()
	storage, err := NewReportStorage(filepath.Join(t.TempDir(), "db", "history.db"), logger.NewNop())
	if err != nil {
		t.Fatalf("NewReportStorage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestStoreAndGetReport(t *testing.T) {
	storage := newTestStorage(t)

	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	record := &ReportRecord{
		CreatedAt:       created,
		SourcePath:      "runs/pid.csv",
		ImagePath:       "runs/pid.png",
		Rows:            3,
		FlightTime:      2,
		MaxSpeed:        5,
		MaxAcceleration: 9.81,
		FuelUsed:        5,
		TouchdownSpeed:  5,
	}
	id, err := storage.StoreReport(record)
	if err != nil {
		t.Fatalf("StoreReport: %v", err)
	}
	if id == 0 || record.ID != id {
		t.Fatalf("id = %d, record.ID = %d", id, record.ID)
	}

	got, err := storage.GetReport(id)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created)
	}
	if got.SourcePath != record.SourcePath || got.ImagePath != record.ImagePath || got.Rows != 3 {
		t.Errorf("record = %+v", got)
	}
	if got.FlightTime != 2 || got.MaxSpeed != 5 || got.MaxAcceleration != 9.81 || got.FuelUsed != 5 {
		t.Errorf("metrics = %+v", got)
	}
}

func TestGetReportNotFound(t *testing.T) {
	storage := newTestStorage(t)
	if _, err := storage.GetReport(42); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("err = %v, want ErrReportNotFound", err)
	}
}

func TestGetReportsNewestFirst(t *testing.T) {
	storage := newTestStorage(t)
	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		if _, err := storage.StoreReport(&ReportRecord{SourcePath: name, ImagePath: name + ".png", Rows: 1}); err != nil {
			t.Fatalf("StoreReport(%s): %v", name, err)
		}
	}

	records, err := storage.GetReports(2, 0)
	if err != nil {
		t.Fatalf("GetReports: %v", err)
	}
	if len(records) != 2 || records[0].SourcePath != "c.csv" || records[1].SourcePath != "b.csv" {
		t.Fatalf("page 1 = %+v", records)
	}

	records, err = storage.GetReports(2, 2)
	if err != nil {
		t.Fatalf("GetReports: %v", err)
	}
	if len(records) != 1 || records[0].SourcePath != "a.csv" {
		t.Fatalf("page 2 = %+v", records)
	}
	if records[0].CreatedAt.IsZero() {
		t.Error("created_at not defaulted")
	}
}

func TestNaNRoundTripsAsNull(t *testing.T) {
	storage := newTestStorage(t)
	id, err := storage.StoreReport(&ReportRecord{SourcePath: "x.csv", ImagePath: "x.png", Rows: 1, MaxSpeed: math.NaN()})
	if err != nil {
		t.Fatalf("StoreReport: %v", err)
	}
	got, err := storage.GetReport(id)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if !math.IsNaN(got.MaxSpeed) {
		t.Errorf("MaxSpeed = %v, want NaN", got.MaxSpeed)
	}
}
