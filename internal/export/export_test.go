package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/testutil"
)

func snapshotItems() []models.InventoryItem {
	return []models.InventoryItem{
		*testutil.FixtureItem(func(i *models.InventoryItem) {
			i.Name = "Jasmine Rice"
			i.Quantity = 10.5
			i.UnitCost = 1.25
		}),
		*testutil.FixtureLowStockItem(func(i *models.InventoryItem) {
			i.LastUpdated = time.Time{}
		}),
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, snapshotItems()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading snapshot back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus 2 rows", len(records))
	}
	if records[0][0] != "name" || records[0][7] != "last_updated" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "Jasmine Rice" || records[1][2] != "10.5" || records[1][5] != "1.25" {
		t.Errorf("row = %v", records[1])
	}
	if records[2][7] != "" {
		t.Errorf("zero timestamp should export empty, got %q", records[2][7])
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := Filename(now, ".csv"); got != "hpm_inventory_20250601_120000.csv" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, snapshotItems()); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	batch, err := ReadXLSXBatch(&buf)
	if err != nil {
		t.Fatalf("ReadXLSXBatch() error = %v", err)
	}
	if len(batch.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(batch.Rows))
	}
	if batch.Header[0] != "name" {
		t.Errorf("header = %v", batch.Header)
	}
	if batch.Rows[0][0] != "Jasmine Rice" || batch.Rows[0][2] != "10.5" {
		t.Errorf("row = %v", batch.Rows[0])
	}
}

func TestReadXLSXBatch_RejectsGarbage(t *testing.T) {
	if _, err := ReadXLSXBatch(strings.NewReader("not a spreadsheet")); err == nil {
		t.Error("ReadXLSXBatch() accepted garbage input")
	}
}
