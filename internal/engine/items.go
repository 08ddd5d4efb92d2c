package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
)

// AddItemInput contains data for creating a new inventory item.
type AddItemInput struct {
	Name     string
	Unit     string
	Quantity float64
	ParLevel float64
	Category string
	UnitCost float64
	Vendor   string
	Scope    models.Scope
}

// AddItem creates a new inventory item. The name must be unused; names
// are compared case-insensitively.
func (e *Engine) AddItem(ctx context.Context, actor Actor, input AddItemInput) (*models.InventoryItem, error) {
	item, verr := e.validateItemInput(ctx, input)
	if verr != nil {
		return nil, verr
	}

	e.itemsMu.Lock()
	defer e.itemsMu.Unlock()

	if _, err := e.store.GetItem(ctx, item.Name); err == nil {
		return nil, fmt.Errorf("item %q: %w", item.Name, ErrItemExists)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing item: %w", err)
	}

	item.LastUpdated = e.now().UTC()
	if err := e.store.UpsertItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	e.log.Info("item added", "user", actor.Username, "item", item.Name)
	return item, nil
}

// UpdateItem replaces every editable field of an existing item. The
// item keeps its position in the inventory.
func (e *Engine) UpdateItem(ctx context.Context, actor Actor, name string, input AddItemInput) (*models.InventoryItem, error) {
	item, verr := e.validateItemInput(ctx, input)
	if verr != nil {
		return nil, verr
	}

	e.itemsMu.Lock()
	defer e.itemsMu.Unlock()

	current, err := e.store.GetItem(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("item %q: %w", name, err)
	}
	if item.Key() != current.Key() {
		return nil, fmt.Errorf("renaming %q to %q: renames are not supported", name, item.Name)
	}
	item.Name = current.Name

	item.LastUpdated = e.now().UTC()
	if err := e.store.UpsertItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	e.log.Info("item updated", "user", actor.Username, "item", item.Name)
	return item, nil
}

// DeleteItem removes an item from the inventory. Past waste entries for
// the item stay in the log.
func (e *Engine) DeleteItem(ctx context.Context, actor Actor, name string) error {
	e.itemsMu.Lock()
	defer e.itemsMu.Unlock()

	items, err := e.store.Items(ctx)
	if err != nil {
		return fmt.Errorf("loading inventory: %w", err)
	}
	key := models.ItemKey(name)
	kept := items[:0:0]
	found := false
	for _, item := range items {
		if item.Key() == key {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return fmt.Errorf("item %q: %w", name, store.ErrNotFound)
	}
	if err := e.store.SaveItems(ctx, kept); err != nil {
		return fmt.Errorf("saving inventory: %w", err)
	}
	e.log.Info("item deleted", "user", actor.Username, "item", name)
	return nil
}

// UpdateCount sets an item's on-hand quantity. This is the one item
// mutation open to staff, used when walking the storeroom with a count
// sheet.
func (e *Engine) UpdateCount(ctx context.Context, actor Actor, name string, quantity float64) (*models.InventoryItem, error) {
	if !finite(quantity) {
		return nil, &ValidationError{Field: "quantity", Code: CodeNonNumericQuantity}
	}
	if quantity < 0 {
		return nil, &ValidationError{Field: "quantity", Code: CodeNegativeValue}
	}

	e.itemsMu.Lock()
	defer e.itemsMu.Unlock()

	item, err := e.store.GetItem(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("item %q: %w", name, err)
	}
	item.Quantity = quantity
	item.LastUpdated = e.now().UTC()
	if err := e.store.UpsertItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	e.log.Info("count updated",
		"user", actor.Username, "item", item.Name, "quantity", quantity)
	return item, nil
}

// validateItemInput runs field validation for add/update by reusing the
// import row validator.
func (e *Engine) validateItemInput(ctx context.Context, input AddItemInput) (*models.InventoryItem, error) {
	categories, err := e.categorySet(ctx)
	if err != nil {
		return nil, err
	}
	row := RawRow{
		"name":      input.Name,
		"unit":      input.Unit,
		"quantity":  formatFloat(input.Quantity),
		"par_level": formatFloat(input.ParLevel),
		"unit_cost": formatFloat(input.UnitCost),
		"category":  input.Category,
		"vendor":    input.Vendor,
	}
	item, verr := ValidateRow(row, categories)
	if verr != nil {
		return nil, verr
	}
	if item.Category == "" {
		item.Category = e.defaultCategory
	}
	item.Scope = input.Scope
	if !item.Scope.Valid() {
		item.Scope = models.ScopeGeneral
	}
	return item, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
