// Package models defines the domain models for the HealthPack inventory
// tracker.
package models

import (
	"strings"
	"time"
)

// InventoryItem is a single tracked perishable good. Items are keyed by
// name; matching is case-insensitive everywhere (imports, lookups,
// uniqueness checks).
type InventoryItem struct {
	Name        string
	Unit        string
	Quantity    float64
	ParLevel    float64
	Category    string
	UnitCost    float64
	Vendor      string // vendor name, lookup only
	Scope       Scope
	LastUpdated time.Time
}

// Key returns the canonical lookup key for the item name.
func ItemKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Key returns the canonical lookup key for this item.
func (i *InventoryItem) Key() string {
	return ItemKey(i.Name)
}

// IsLowStock reports whether the item is strictly below its par level.
// An item sitting exactly at par is not low stock.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity < i.ParLevel
}

// TotalValue calculates the value of the current stock.
func (i *InventoryItem) TotalValue() float64 {
	return i.Quantity * i.UnitCost
}

// QuantityNeeded calculates how much must be ordered to reach par level.
func (i *InventoryItem) QuantityNeeded() float64 {
	if i.Quantity >= i.ParLevel {
		return 0
	}
	return i.ParLevel - i.Quantity
}

// EffectiveScope returns the item's scope, defaulting to general for
// records persisted before scopes existed.
func (i *InventoryItem) EffectiveScope() Scope {
	if i.Scope == "" {
		return ScopeGeneral
	}
	return i.Scope
}
