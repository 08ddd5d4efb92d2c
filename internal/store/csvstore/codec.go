package csvstore

import (
	"fmt"
	"strconv"
	"time"

	"github.com/davidgev86/HealthPackTracker/internal/models"
)

var itemHeader = []string{
	"name", "unit", "quantity", "par_level", "category", "unit_cost", "vendor", "scope", "last_updated",
}

var wasteHeader = []string{
	"id", "item_name", "quantity", "unit", "unit_cost", "reason", "logged_by", "scope", "logged_at",
}

func decodeItem(header, row []string) (models.InventoryItem, error) {
	quantity, err := parseFloat(field(row, column(header, "quantity")))
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("quantity: %w", err)
	}
	parLevel, err := parseFloat(field(row, column(header, "par_level")))
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("par_level: %w", err)
	}
	unitCost, err := parseFloat(field(row, column(header, "unit_cost")))
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("unit_cost: %w", err)
	}
	updated, err := parseTime(field(row, column(header, "last_updated")))
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("last_updated: %w", err)
	}

	category := field(row, column(header, "category"))
	if category == "" {
		category = models.DefaultCategory
	}

	return models.InventoryItem{
		Name:        field(row, column(header, "name")),
		Unit:        field(row, column(header, "unit")),
		Quantity:    quantity,
		ParLevel:    parLevel,
		Category:    category,
		UnitCost:    unitCost,
		Vendor:      field(row, column(header, "vendor")),
		Scope:       models.Scope(field(row, column(header, "scope"))),
		LastUpdated: updated,
	}, nil
}

func encodeItems(items []models.InventoryItem) ([]string, [][]string) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Name,
			item.Unit,
			formatFloat(item.Quantity),
			formatFloat(item.ParLevel),
			item.Category,
			formatFloat(item.UnitCost),
			item.Vendor,
			string(item.EffectiveScope()),
			formatTime(item.LastUpdated),
		})
	}
	return itemHeader, rows
}

func decodeWasteEntry(header, row []string) (models.WasteEntry, error) {
	quantity, err := parseFloat(field(row, column(header, "quantity")))
	if err != nil {
		return models.WasteEntry{}, fmt.Errorf("quantity: %w", err)
	}
	unitCost, err := parseFloat(field(row, column(header, "unit_cost")))
	if err != nil {
		return models.WasteEntry{}, fmt.Errorf("unit_cost: %w", err)
	}
	loggedAt, err := parseTime(field(row, column(header, "logged_at")))
	if err != nil {
		return models.WasteEntry{}, fmt.Errorf("logged_at: %w", err)
	}

	return models.WasteEntry{
		ID:       field(row, column(header, "id")),
		ItemName: field(row, column(header, "item_name")),
		Quantity: quantity,
		Unit:     field(row, column(header, "unit")),
		UnitCost: unitCost,
		Reason:   field(row, column(header, "reason")),
		LoggedBy: field(row, column(header, "logged_by")),
		Scope:    models.Scope(field(row, column(header, "scope"))),
		LoggedAt: loggedAt,
	}, nil
}

func encodeWasteEntries(entries []models.WasteEntry) ([]string, [][]string) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			e.ItemName,
			formatFloat(e.Quantity),
			e.Unit,
			formatFloat(e.UnitCost),
			e.Reason,
			e.LoggedBy,
			string(e.EffectiveScope()),
			formatTime(e.LoggedAt),
		})
	}
	return wasteHeader, rows
}

// parseFloat treats an empty field as zero; older files omit cost columns.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseTime treats an empty field as the zero time.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
