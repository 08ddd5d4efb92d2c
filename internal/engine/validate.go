package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/davidgev86/HealthPackTracker/internal/models"
)

// Validation error codes.
const (
	CodeMissingField       = "missing_field"
	CodeInvalidUnit        = "invalid_unit"
	CodeInvalidCategory    = "invalid_category"
	CodeNonNumericQuantity = "non_numeric_quantity"
	CodeNegativeValue      = "negative_value"
)

// ValidationError describes a single rejected field. Validation stops at
// the first failure, checking required fields, then numeric coercion,
// then enum membership.
type ValidationError struct {
	Field string
	Code  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Code)
}

// RawRow holds an unvalidated inventory record keyed by column name, as
// read from an import file. Values are untrimmed strings.
type RawRow map[string]string

// requiredColumns must be present in every import row.
var requiredColumns = []string{"name", "unit", "quantity", "par_level"}

// timestampFormats accepted for the optional last_updated column.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ValidateRow checks a raw row and produces an inventory item from it.
// categories is the set of known category names; an empty set disables
// the category check. The returned item has no scope or timestamp set
// unless the row carried them. ValidateRow touches no shared state.
func ValidateRow(row RawRow, categories map[string]bool) (*models.InventoryItem, *ValidationError) {
	get := func(col string) string { return strings.TrimSpace(row[col]) }

	for _, col := range requiredColumns {
		if get(col) == "" {
			return nil, &ValidationError{Field: col, Code: CodeMissingField}
		}
	}

	quantity, verr := parsePositiveFloat("quantity", get("quantity"))
	if verr != nil {
		return nil, verr
	}
	parLevel, verr := parsePositiveFloat("par_level", get("par_level"))
	if verr != nil {
		return nil, verr
	}
	unitCost := 0.0
	if raw := get("unit_cost"); raw != "" {
		unitCost, verr = parsePositiveFloat("unit_cost", raw)
		if verr != nil {
			return nil, verr
		}
	}

	unit := strings.ToLower(get("unit"))
	if !models.ValidUnit(unit) {
		return nil, &ValidationError{Field: "unit", Code: CodeInvalidUnit}
	}

	category := get("category")
	if category != "" && len(categories) > 0 && !categories[models.ItemKey(category)] {
		return nil, &ValidationError{Field: "category", Code: CodeInvalidCategory}
	}

	item := &models.InventoryItem{
		Name:     get("name"),
		Unit:     unit,
		Quantity: quantity,
		ParLevel: parLevel,
		Category: category,
		UnitCost: unitCost,
		Vendor:   get("vendor"),
	}
	if raw := get("last_updated"); raw != "" {
		if ts, ok := parseTimestamp(raw); ok {
			item.LastUpdated = ts
		}
	}
	return item, nil
}

func parsePositiveFloat(field, raw string) (float64, *ValidationError) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(v) {
		return 0, &ValidationError{Field: field, Code: CodeNonNumericQuantity}
	}
	if v < 0 {
		return 0, &ValidationError{Field: field, Code: CodeNegativeValue}
	}
	return v, nil
}

// finite rejects NaN and infinities, which strconv.ParseFloat accepts
// and which would slip through ordinary < and > comparisons.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// parseTimestamp tries the accepted formats in order. An unparseable
// value is treated as absent rather than rejecting the row.
func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampFormats {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
