package models

import "time"

// WasteEntry records a single waste event. Entries form an append-only
// audit ledger: they are never mutated after creation, and deleting one
// (an explicit admin action) does not restore the inventory quantity it
// removed.
type WasteEntry struct {
	ID       string
	ItemName string
	Quantity float64
	Unit     string
	UnitCost float64 // item's unit cost captured at log time
	Reason   string
	LoggedBy string
	Scope    Scope
	LoggedAt time.Time
}

// WasteValue calculates the dollar value of the wasted quantity.
func (w *WasteEntry) WasteValue() float64 {
	return w.Quantity * w.UnitCost
}

// EffectiveScope returns the entry's scope, defaulting to general.
func (w *WasteEntry) EffectiveScope() Scope {
	if w.Scope == "" {
		return ScopeGeneral
	}
	return w.Scope
}

// InPeriod reports whether the entry falls within [start, end).
func (w *WasteEntry) InPeriod(start, end time.Time) bool {
	return !w.LoggedAt.Before(start) && w.LoggedAt.Before(end)
}
