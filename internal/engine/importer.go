package engine

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/davidgev86/HealthPackTracker/internal/models"
)

// Batch is a parsed import file: a header row plus data rows, still
// unvalidated. Both CSV and spreadsheet readers produce one.
type Batch struct {
	Header []string
	Rows   [][]string
}

// RowRejection records why a single data row was refused. Row is the
// 1-based index of the row within the batch, not counting the header.
type RowRejection struct {
	Row    int
	Reason string
}

// ImportReport summarizes one reconciliation run.
type ImportReport struct {
	// Accepted counts distinct items staged for the merge: validated
	// rows minus in-batch duplicates, so Accepted == Inserted + Updated.
	Accepted int
	Inserted int
	Updated  int
	Rejected []RowRejection

	// UnitChanges lists items whose unit of measure differed from the
	// stored record. The change is applied but worth a second look.
	UnitChanges []string
}

// ParseBatch reads a CSV import file into a batch. Rows may have fewer
// columns than the header; missing cells read as empty.
func ParseBatch(r io.Reader) (*Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("import file is empty")
	}
	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return &Batch{Header: header, Rows: records[1:]}, nil
}

// Reconcile merges a batch into the inventory. Matching is by
// case-insensitive name: matched items are updated in place, unmatched
// rows become new items. Rows that fail validation are skipped
// individually; a header missing a required column rejects the whole
// batch. Reconciliation never deletes, and the store is written once.
func (e *Engine) Reconcile(ctx context.Context, actor Actor, batch *Batch) (*ImportReport, error) {
	cols := make(map[string]int, len(batch.Header))
	for i, name := range batch.Header {
		cols[name] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, &ValidationError{Field: required, Code: CodeMissingField}
		}
	}

	categories, err := e.categorySet(ctx)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}

	// Validate every row before touching the store. Within the batch the
	// last occurrence of a name wins. Each staged row remembers which
	// optional columns it actually carried so the merge can leave the
	// others alone.
	type stagedRow struct {
		item      *models.InventoryItem
		hasCost   bool
		hasVendor bool
	}
	staged := make([]stagedRow, 0, len(batch.Rows))
	stagedIdx := make(map[string]int)
	for i, cells := range batch.Rows {
		rowNum := i + 1
		raw := make(RawRow, len(cols))
		for name, idx := range cols {
			if idx < len(cells) {
				raw[name] = cells[idx]
			}
		}
		item, verr := ValidateRow(raw, categories)
		if verr != nil {
			report.Rejected = append(report.Rejected, RowRejection{Row: rowNum, Reason: verr.Error()})
			continue
		}
		row := stagedRow{
			item:      item,
			hasCost:   strings.TrimSpace(raw["unit_cost"]) != "",
			hasVendor: strings.TrimSpace(raw["vendor"]) != "",
		}
		key := item.Key()
		if prev, ok := stagedIdx[key]; ok {
			e.log.Warn("duplicate name in import batch, keeping later row",
				"item", item.Name, "row", rowNum)
			staged[prev] = row
			continue
		}
		stagedIdx[key] = len(staged)
		staged = append(staged, row)
	}
	report.Accepted = len(staged)

	e.itemsMu.Lock()
	defer e.itemsMu.Unlock()

	items, err := e.store.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	existing := make(map[string]int, len(items))
	for i, item := range items {
		existing[item.Key()] = i
	}

	now := e.now().UTC()
	for _, row := range staged {
		incoming := row.item
		if incoming.LastUpdated.IsZero() {
			incoming.LastUpdated = now
		}
		idx, ok := existing[incoming.Key()]
		if !ok {
			if incoming.Category == "" {
				incoming.Category = e.defaultCategory
			}
			incoming.Scope = models.ScopeGeneral
			existing[incoming.Key()] = len(items)
			items = append(items, *incoming)
			report.Inserted++
			continue
		}
		current := &items[idx]
		if current.Unit != incoming.Unit {
			e.log.Warn("import changed unit of measure",
				"item", current.Name, "from", current.Unit, "to", incoming.Unit)
			report.UnitChanges = append(report.UnitChanges, current.Name)
		}
		// Matched rows update the counted fields only. Stored name
		// casing, scope, position, and any column the batch left blank
		// all survive the import.
		current.Unit = incoming.Unit
		current.Quantity = incoming.Quantity
		current.ParLevel = incoming.ParLevel
		current.LastUpdated = incoming.LastUpdated
		if incoming.Category != "" {
			current.Category = incoming.Category
		}
		if row.hasCost {
			current.UnitCost = incoming.UnitCost
		}
		if row.hasVendor {
			current.Vendor = incoming.Vendor
		}
		report.Updated++
	}

	if err := e.store.SaveItems(ctx, items); err != nil {
		return nil, fmt.Errorf("saving inventory: %w", err)
	}

	e.log.Info("import reconciled",
		"user", actor.Username,
		"accepted", report.Accepted,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"rejected", len(report.Rejected))
	return report, nil
}

// categorySet returns the known category names, defaults plus stored,
// keyed case-insensitively.
func (e *Engine) categorySet(ctx context.Context) (map[string]bool, error) {
	set := make(map[string]bool, len(models.DefaultCategories))
	for _, name := range models.DefaultCategories {
		set[models.ItemKey(name)] = true
	}
	stored, err := e.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	for _, c := range stored {
		set[c.Key()] = true
	}
	return set, nil
}
