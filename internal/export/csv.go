// Package export produces inventory snapshots as CSV or spreadsheet
// files and reads spreadsheet import batches.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/davidgev86/HealthPackTracker/internal/models"
)

// snapshotHeader is the column layout of exported snapshots. It is a
// superset of the import format, so an export can be re-imported as is.
var snapshotHeader = []string{
	"name", "unit", "quantity", "par_level", "category",
	"unit_cost", "vendor", "last_updated",
}

// WriteCSV writes items as a CSV snapshot in the order given.
func WriteCSV(w io.Writer, items []models.InventoryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(snapshotHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, item := range items {
		if err := cw.Write(itemCells(item)); err != nil {
			return fmt.Errorf("writing row for %q: %w", item.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	return nil
}

// Filename returns a timestamped snapshot name like
// hpm_inventory_20250601_120000 plus the extension.
func Filename(now time.Time, ext string) string {
	return "hpm_inventory_" + now.Format("20060102_150405") + ext
}

func itemCells(item models.InventoryItem) []string {
	lastUpdated := ""
	if !item.LastUpdated.IsZero() {
		lastUpdated = item.LastUpdated.UTC().Format(time.RFC3339)
	}
	return []string{
		item.Name,
		item.Unit,
		formatFloat(item.Quantity),
		formatFloat(item.ParLevel),
		item.Category,
		formatFloat(item.UnitCost),
		item.Vendor,
		lastUpdated,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
