package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
	"github.com/davidgev86/HealthPackTracker/internal/util"
)

// MaybeGenerate returns the weekly report covering now, generating and
// persisting a fresh one only when no stored report covers it. The
// returned flag reports whether a new snapshot was written. Calls within
// the same period return the stored report unchanged, so the operation
// is idempotent per window.
//
// Reports cover general-scope records only; HPM-restricted stock is
// excluded from every figure.
func (e *Engine) MaybeGenerate(ctx context.Context) (*models.WeeklyReport, bool, error) {
	e.reportMu.Lock()
	defer e.reportMu.Unlock()

	now := e.now().UTC()
	existing, err := e.store.Report(ctx)
	switch {
	case err == nil:
		if existing.Covers(now) {
			return existing, false, nil
		}
	case errors.Is(err, store.ErrNotFound):
		// First run, nothing stored yet.
	default:
		return nil, false, fmt.Errorf("loading stored report: %w", err)
	}

	report, err := e.buildReport(ctx, now)
	if err != nil {
		return nil, false, err
	}
	if err := e.store.SaveReport(ctx, *report); err != nil {
		return nil, false, fmt.Errorf("saving report: %w", err)
	}
	e.log.Info("weekly report generated",
		"period_start", report.PeriodStart,
		"period_end", report.PeriodEnd)
	return report, true, nil
}

// RegenerateReport rebuilds the report for the current period,
// overwriting any stored snapshot. Used after late edits so the stored
// report reflects them.
func (e *Engine) RegenerateReport(ctx context.Context) (*models.WeeklyReport, error) {
	e.reportMu.Lock()
	defer e.reportMu.Unlock()

	report, err := e.buildReport(ctx, e.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := e.store.SaveReport(ctx, *report); err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}
	return report, nil
}

func (e *Engine) buildReport(ctx context.Context, now time.Time) (*models.WeeklyReport, error) {
	periodStart := util.StartOfDay(now)
	periodEnd := periodStart.AddDate(0, 0, e.periodDays)

	items, err := e.scopeItems(ctx, models.ScopeGeneral)
	if err != nil {
		return nil, err
	}
	entries, err := e.store.WasteEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading waste log: %w", err)
	}

	report := &models.WeeklyReport{
		ID:          util.NewID(),
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		ByCategory:  make(map[string]models.CategoryAggregate),
		ByReason:    make(map[string]float64),
		ByItem:      make(map[string]float64),
		GeneratedAt: now,
	}

	for _, item := range items {
		report.TotalItems++
		report.TotalValuation += item.TotalValue()
		if item.IsLowStock() {
			report.LowStockCount++
		}
		category := item.Category
		if category == "" {
			category = e.defaultCategory
		}
		agg := report.ByCategory[category]
		agg.Quantity += item.Quantity
		agg.Value += item.TotalValue()
		report.ByCategory[category] = agg
	}

	// Waste figures cover the report window; entries logged after a
	// mid-window generation show up when the snapshot is regenerated.
	for _, entry := range entries {
		if entry.EffectiveScope() != models.ScopeGeneral {
			continue
		}
		if !entry.InPeriod(periodStart, periodEnd) {
			continue
		}
		report.TotalWaste += entry.WasteValue()
		report.ByReason[entry.Reason] += entry.WasteValue()
		report.ByItem[entry.ItemName] += entry.WasteValue()
	}

	return report, nil
}
