package models

import "time"

// CategoryAggregate sums quantity and valuation for one category.
type CategoryAggregate struct {
	Quantity float64
	Value    float64
}

// WeeklyReport is a point-in-time snapshot comparing the week's inventory
// valuation and waste. At most one report exists per 7-day window;
// regenerating within the window overwrites the prior snapshot. HPM-scoped
// items and waste are excluded.
type WeeklyReport struct {
	ID             string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	TotalItems     int
	TotalValuation float64
	TotalWaste     float64
	LowStockCount  int
	ByCategory     map[string]CategoryAggregate
	ByReason       map[string]float64 // waste reason -> waste value
	ByItem         map[string]float64 // item name -> waste value
	GeneratedAt    time.Time
}

// Covers reports whether t falls inside the report's period.
func (r *WeeklyReport) Covers(t time.Time) bool {
	return !t.Before(r.PeriodStart) && t.Before(r.PeriodEnd)
}
