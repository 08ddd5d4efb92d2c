package engine

import (
	"context"
	"testing"
	"time"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/testutil"
	"github.com/davidgev86/HealthPackTracker/internal/util"
)

func TestMaybeGenerate(t *testing.T) {
	ctx := context.Background()
	eng, st := newTestEngine(t)
	testutil.SeedItems(t, st,
		testutil.FixtureItem(func(i *models.InventoryItem) {
			i.Name = "Rice"
			i.Category = "Pantry"
			i.Quantity = 10
			i.ParLevel = 5
			i.UnitCost = 1.25
		}),
		testutil.FixtureLowStockItem(func(i *models.InventoryItem) {
			i.Name = "Broccoli"
			i.UnitCost = 2
		}),
		testutil.FixtureHPMItem(func(i *models.InventoryItem) {
			i.Quantity = 100
			i.UnitCost = 50
		}),
	)
	testutil.SeedWaste(t, st,
		testutil.FixtureWasteEntry(func(w *models.WasteEntry) {
			w.ItemName = "Rice"
			w.Quantity = 2
			w.UnitCost = 1.25
			w.Reason = "spoiled"
			w.LoggedAt = testClock.Add(1 * time.Hour)
		}),
		testutil.FixtureWasteEntry(func(w *models.WasteEntry) {
			w.ItemName = "Broccoli"
			w.Quantity = 1
			w.UnitCost = 2
			w.Reason = "overproduction"
			w.LoggedAt = testClock.Add(2 * time.Hour)
		}),
		// Outside the window, must not count.
		testutil.FixtureWasteEntry(func(w *models.WasteEntry) {
			w.ItemName = "Rice"
			w.Quantity = 50
			w.LoggedAt = testClock.AddDate(0, 0, -10)
		}),
		// Restricted scope, must not count.
		testutil.FixtureWasteEntry(func(w *models.WasteEntry) {
			w.ItemName = "Sealed Meal Tray"
			w.Quantity = 5
			w.UnitCost = 50
			w.Scope = models.ScopeHPM
			w.LoggedAt = testClock.Add(1 * time.Hour)
		}),
	)

	report, generated, err := eng.MaybeGenerate(ctx)
	if err != nil {
		t.Fatalf("MaybeGenerate() error = %v", err)
	}
	if !generated {
		t.Fatal("first call should generate")
	}

	if report.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2 (restricted stock excluded)", report.TotalItems)
	}
	if want := 10*1.25 + 2*2.0; report.TotalValuation != want {
		t.Errorf("TotalValuation = %v, want %v", report.TotalValuation, want)
	}
	if report.LowStockCount != 1 {
		t.Errorf("LowStockCount = %d, want 1", report.LowStockCount)
	}
	if want := 2*1.25 + 1*2.0; report.TotalWaste != want {
		t.Errorf("TotalWaste = %v, want %v", report.TotalWaste, want)
	}
	if report.ByReason["spoiled"] != 2.5 || report.ByReason["overproduction"] != 2 {
		t.Errorf("ByReason = %v", report.ByReason)
	}
	// Per-item figures are waste value, not summed quantities.
	if report.ByItem["Rice"] != 2.5 || report.ByItem["Broccoli"] != 2 {
		t.Errorf("ByItem = %v, want Rice 2.5 and Broccoli 2", report.ByItem)
	}
	if pantry := report.ByCategory["Pantry"]; pantry.Quantity != 10 {
		t.Errorf("ByCategory[Pantry] = %+v", pantry)
	}
	if !report.PeriodStart.Equal(util.StartOfDay(testClock)) {
		t.Errorf("PeriodStart = %v", report.PeriodStart)
	}
	if report.PeriodEnd.Sub(report.PeriodStart) != 7*24*time.Hour {
		t.Errorf("period length = %v, want 168h", report.PeriodEnd.Sub(report.PeriodStart))
	}
}

func TestMaybeGenerate_IdempotentWithinPeriod(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	first, generated, err := eng.MaybeGenerate(ctx)
	if err != nil || !generated {
		t.Fatalf("first call: report=%v generated=%v err=%v", first, generated, err)
	}

	second, generated, err := eng.MaybeGenerate(ctx)
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if generated {
		t.Error("second call within the period regenerated the report")
	}
	if second.ID != first.ID {
		t.Errorf("second call returned a different report: %s vs %s", second.ID, first.ID)
	}
}

func TestMaybeGenerate_NewPeriodReplacesReport(t *testing.T) {
	ctx := context.Background()
	st := testutil.TempStore(t)

	clock := testClock
	eng := newClockEngine(t, st, func() time.Time { return clock })

	first, _, err := eng.MaybeGenerate(ctx)
	if err != nil {
		t.Fatalf("MaybeGenerate() error = %v", err)
	}

	clock = testClock.AddDate(0, 0, 8)
	second, generated, err := eng.MaybeGenerate(ctx)
	if err != nil {
		t.Fatalf("MaybeGenerate() error = %v", err)
	}
	if !generated {
		t.Fatal("call after the period ended should generate")
	}
	if second.ID == first.ID {
		t.Error("new period reused the old report")
	}
	if !second.Covers(clock) {
		t.Errorf("new report does not cover now: %+v", second)
	}
}

func TestRegenerateReport_OverwritesSnapshot(t *testing.T) {
	ctx := context.Background()
	eng, st := newTestEngine(t)
	testutil.SeedItems(t, st, testutil.FixtureItem(func(i *models.InventoryItem) {
		i.Name = "Rice"
		i.Quantity = 10
		i.UnitCost = 1
	}))

	first, _, err := eng.MaybeGenerate(ctx)
	if err != nil {
		t.Fatalf("MaybeGenerate() error = %v", err)
	}
	if first.TotalWaste != 0 {
		t.Fatalf("TotalWaste = %v, want 0", first.TotalWaste)
	}

	// A late waste log inside the window shows up after regeneration.
	if _, err := eng.LogWaste(ctx, asManager(), "Rice", 3, "spoiled"); err != nil {
		t.Fatalf("LogWaste() error = %v", err)
	}
	second, err := eng.RegenerateReport(ctx)
	if err != nil {
		t.Fatalf("RegenerateReport() error = %v", err)
	}
	if second.TotalWaste != 3 {
		t.Errorf("TotalWaste = %v, want 3", second.TotalWaste)
	}

	stored, err := st.Report(ctx)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if stored.ID != second.ID {
		t.Error("regenerated report was not persisted")
	}
}
