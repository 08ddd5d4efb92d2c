package engine

import (
	"context"
	"fmt"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
	"github.com/davidgev86/HealthPackTracker/internal/util"
)

// LogWaste records wasted stock for an item and decrements its quantity
// in the same commit. The wasted quantity must be positive and no more
// than the quantity on hand; the entry captures the item's unit cost at
// the moment of logging so later price edits do not rewrite history.
func (e *Engine) LogWaste(ctx context.Context, actor Actor, itemName string, quantity float64, reason string) (*models.WasteEntry, error) {
	if !finite(quantity) {
		return nil, &ValidationError{Field: "quantity", Code: CodeNonNumericQuantity}
	}
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Code: CodeNegativeValue}
	}
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Code: CodeMissingField}
	}

	e.itemsMu.Lock()
	defer e.itemsMu.Unlock()
	e.wasteMu.Lock()
	defer e.wasteMu.Unlock()

	items, err := e.store.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	key := models.ItemKey(itemName)
	idx := -1
	for i := range items {
		if items[i].Key() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("item %q: %w", itemName, store.ErrNotFound)
	}
	item := &items[idx]
	if quantity > item.Quantity {
		return nil, fmt.Errorf("wasting %v of %v %s %q: %w",
			quantity, item.Quantity, item.Unit, item.Name, ErrInsufficientQuantity)
	}

	now := e.now().UTC()
	item.Quantity -= quantity
	item.LastUpdated = now

	entry := models.WasteEntry{
		ID:       util.NewID(),
		ItemName: item.Name,
		Quantity: quantity,
		Unit:     item.Unit,
		UnitCost: item.UnitCost,
		Reason:   reason,
		LoggedBy: actor.Username,
		Scope:    item.EffectiveScope(),
		LoggedAt: now,
	}

	if err := e.store.CommitWaste(ctx, items, entry); err != nil {
		return nil, fmt.Errorf("committing waste entry: %w", err)
	}

	e.log.Info("waste logged",
		"user", actor.Username,
		"item", item.Name,
		"quantity", quantity,
		"reason", reason)
	return &entry, nil
}

// WasteEntries returns the waste log in stored order.
func (e *Engine) WasteEntries(ctx context.Context) ([]models.WasteEntry, error) {
	return e.store.WasteEntries(ctx)
}

// DeleteWasteEntry removes a waste entry by ID. The item's quantity is
// not restored; deleting corrects the log, not the stock count.
func (e *Engine) DeleteWasteEntry(ctx context.Context, actor Actor, id string) error {
	id, err := util.ParseID(id)
	if err != nil {
		return fmt.Errorf("waste entry ID: %w", err)
	}

	e.wasteMu.Lock()
	defer e.wasteMu.Unlock()

	entries, err := e.store.WasteEntries(ctx)
	if err != nil {
		return fmt.Errorf("loading waste log: %w", err)
	}
	kept := entries[:0:0]
	found := false
	for _, entry := range entries {
		if entry.ID == id {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return fmt.Errorf("waste entry %q: %w", id, store.ErrNotFound)
	}
	if err := e.store.SaveWasteEntries(ctx, kept); err != nil {
		return fmt.Errorf("saving waste log: %w", err)
	}
	e.log.Info("waste entry deleted", "user", actor.Username, "id", id)
	return nil
}
