package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/davidgev86/HealthPackTracker/internal/models"
)

// ShoppingItem is one line of a restocking list.
type ShoppingItem struct {
	Name   string
	Vendor string
	Unit   string
	Needed float64
}

// Items returns the full inventory in stored order.
func (e *Engine) Items(ctx context.Context) ([]models.InventoryItem, error) {
	return e.store.Items(ctx)
}

// LowStock returns items in scope whose quantity is strictly below par,
// ordered by category then name. An item sitting exactly at par is not
// low.
func (e *Engine) LowStock(ctx context.Context, scope models.Scope) ([]models.InventoryItem, error) {
	items, err := e.scopeItems(ctx, scope)
	if err != nil {
		return nil, err
	}
	var low []models.InventoryItem
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	sort.Slice(low, func(i, j int) bool {
		if low[i].Category != low[j].Category {
			return low[i].Category < low[j].Category
		}
		return strings.ToLower(low[i].Name) < strings.ToLower(low[j].Name)
	})
	return low, nil
}

// CategoryTotals sums on-hand valuation per category for a scope.
func (e *Engine) CategoryTotals(ctx context.Context, scope models.Scope) (map[string]models.CategoryAggregate, error) {
	items, err := e.scopeItems(ctx, scope)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]models.CategoryAggregate)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = e.defaultCategory
		}
		agg := totals[category]
		agg.Quantity += item.Quantity
		agg.Value += item.TotalValue()
		totals[category] = agg
	}
	return totals, nil
}

// TotalValuation sums quantity times unit cost across a scope.
func (e *Engine) TotalValuation(ctx context.Context, scope models.Scope) (float64, error) {
	items, err := e.scopeItems(ctx, scope)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, item := range items {
		total += item.TotalValue()
	}
	return total, nil
}

// ShoppingList returns what needs reordering for a scope, sorted by
// vendor then name. Items from vendors flagged as excluded are skipped;
// items with no vendor on file sort first under an empty vendor name.
func (e *Engine) ShoppingList(ctx context.Context, scope models.Scope) ([]ShoppingItem, error) {
	items, err := e.scopeItems(ctx, scope)
	if err != nil {
		return nil, err
	}
	vendors, err := e.store.Vendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading vendors: %w", err)
	}
	excluded := make(map[string]bool)
	for _, v := range vendors {
		if v.ExcludeFromShoppingList {
			excluded[v.Key()] = true
		}
	}

	var list []ShoppingItem
	for _, item := range items {
		needed := item.QuantityNeeded()
		if needed <= 0 {
			continue
		}
		if excluded[models.ItemKey(item.Vendor)] {
			continue
		}
		list = append(list, ShoppingItem{
			Name:   item.Name,
			Vendor: item.Vendor,
			Unit:   item.Unit,
			Needed: needed,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Vendor != list[j].Vendor {
			return list[i].Vendor < list[j].Vendor
		}
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	return list, nil
}

func (e *Engine) scopeItems(ctx context.Context, scope models.Scope) ([]models.InventoryItem, error) {
	items, err := e.store.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	scoped := items[:0:0]
	for _, item := range items {
		if item.EffectiveScope() == scope {
			scoped = append(scoped, item)
		}
	}
	return scoped, nil
}
