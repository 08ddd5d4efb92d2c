package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
	"github.com/davidgev86/HealthPackTracker/internal/testutil"
)

func TestLogWaste(t *testing.T) {
	ctx := context.Background()
	eng, st := newTestEngine(t)
	testutil.SeedItems(t, st, testutil.FixtureItem(func(i *models.InventoryItem) {
		i.Name = "Broccoli Crowns"
		i.Quantity = 8
		i.Unit = "lbs"
		i.UnitCost = 2.50
	}))

	entry, err := eng.LogWaste(ctx, Actor{Username: "pat", Role: models.RoleStaff}, "broccoli crowns", 3, "spoiled")
	if err != nil {
		t.Fatalf("LogWaste() error = %v", err)
	}
	if entry.ID == "" {
		t.Error("entry has no ID")
	}
	if entry.ItemName != "Broccoli Crowns" {
		t.Errorf("ItemName = %q, want stored capitalization", entry.ItemName)
	}
	if entry.UnitCost != 2.50 || entry.Unit != "lbs" {
		t.Errorf("entry did not capture unit cost and unit: %+v", entry)
	}
	if entry.LoggedBy != "pat" {
		t.Errorf("LoggedBy = %q, want %q", entry.LoggedBy, "pat")
	}
	if !entry.LoggedAt.Equal(testClock) {
		t.Errorf("LoggedAt = %v, want %v", entry.LoggedAt, testClock)
	}

	item, err := st.GetItem(ctx, "Broccoli Crowns")
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if item.Quantity != 5 {
		t.Errorf("Quantity = %v, want 5", item.Quantity)
	}

	entries, _ := st.WasteEntries(ctx)
	if len(entries) != 1 {
		t.Fatalf("got %d waste entries, want 1", len(entries))
	}
}

func TestLogWaste_Errors(t *testing.T) {
	ctx := context.Background()
	eng, st := newTestEngine(t)
	testutil.SeedItems(t, st, testutil.FixtureItem(func(i *models.InventoryItem) {
		i.Name = "Broccoli Crowns"
		i.Quantity = 8
	}))

	t.Run("unknown item", func(t *testing.T) {
		_, err := eng.LogWaste(ctx, asManager(), "Dragonfruit", 1, "spoiled")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("insufficient quantity", func(t *testing.T) {
		_, err := eng.LogWaste(ctx, asManager(), "Broccoli Crowns", 9, "spoiled")
		if !errors.Is(err, ErrInsufficientQuantity) {
			t.Errorf("error = %v, want ErrInsufficientQuantity", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		var verr *ValidationError
		_, err := eng.LogWaste(ctx, asManager(), "Broccoli Crowns", 0, "spoiled")
		if !errors.As(err, &verr) || verr.Code != CodeNegativeValue {
			t.Errorf("error = %v, want negative_value", err)
		}
	})

	t.Run("non-finite quantity", func(t *testing.T) {
		for _, quantity := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			var verr *ValidationError
			_, err := eng.LogWaste(ctx, asManager(), "Broccoli Crowns", quantity, "spoiled")
			if !errors.As(err, &verr) || verr.Code != CodeNonNumericQuantity {
				t.Errorf("LogWaste(%v): error = %v, want non_numeric_quantity", quantity, err)
			}
		}
	})

	t.Run("missing reason", func(t *testing.T) {
		var verr *ValidationError
		_, err := eng.LogWaste(ctx, asManager(), "Broccoli Crowns", 1, "")
		if !errors.As(err, &verr) || verr.Code != CodeMissingField {
			t.Errorf("error = %v, want missing_field", err)
		}
	})

	// A failed attempt must not have touched the item or the log.
	item, _ := st.GetItem(ctx, "Broccoli Crowns")
	if item.Quantity != 8 {
		t.Errorf("Quantity = %v, want 8 after failed attempts", item.Quantity)
	}
	entries, _ := st.WasteEntries(ctx)
	if len(entries) != 0 {
		t.Errorf("got %d waste entries, want 0", len(entries))
	}
}

func TestLogWaste_ExactQuantityDrainsToZero(t *testing.T) {
	ctx := context.Background()
	eng, st := newTestEngine(t)
	testutil.SeedItems(t, st, testutil.FixtureItem(func(i *models.InventoryItem) {
		i.Name = "Heavy Cream"
		i.Quantity = 2
	}))

	if _, err := eng.LogWaste(ctx, asManager(), "Heavy Cream", 2, "expired"); err != nil {
		t.Fatalf("LogWaste() error = %v", err)
	}
	item, _ := st.GetItem(ctx, "Heavy Cream")
	if item.Quantity != 0 {
		t.Errorf("Quantity = %v, want 0", item.Quantity)
	}
}

func TestDeleteWasteEntry(t *testing.T) {
	ctx := context.Background()
	eng, st := newTestEngine(t)
	testutil.SeedItems(t, st, testutil.FixtureItem(func(i *models.InventoryItem) {
		i.Name = "Jasmine Rice"
		i.Quantity = 10
	}))

	entry, err := eng.LogWaste(ctx, asManager(), "Jasmine Rice", 4, "overproduction")
	if err != nil {
		t.Fatalf("LogWaste() error = %v", err)
	}

	if err := eng.DeleteWasteEntry(ctx, Actor{Username: "root", Role: models.RoleAdmin}, entry.ID); err != nil {
		t.Fatalf("DeleteWasteEntry() error = %v", err)
	}

	entries, _ := st.WasteEntries(ctx)
	if len(entries) != 0 {
		t.Errorf("got %d waste entries, want 0", len(entries))
	}
	// Deleting the log entry does not put stock back.
	item, _ := st.GetItem(ctx, "Jasmine Rice")
	if item.Quantity != 6 {
		t.Errorf("Quantity = %v, want 6", item.Quantity)
	}

	err = eng.DeleteWasteEntry(ctx, Actor{Username: "root", Role: models.RoleAdmin}, entry.ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: error = %v, want ErrNotFound", err)
	}

	if err := eng.DeleteWasteEntry(ctx, Actor{Username: "root", Role: models.RoleAdmin}, "not-a-uuid"); err == nil {
		t.Error("DeleteWasteEntry() with malformed ID: expected error")
	}
}

func TestWaste_QuantityNeverNegative(t *testing.T) {
	ctx := context.Background()
	eng, st := newTestEngine(t)
	testutil.SeedItems(t, st, testutil.FixtureItem(func(i *models.InventoryItem) {
		i.Name = "Lemons"
		i.Quantity = 10
	}))

	// Hammer the item with waste amounts that eventually overdraw it. No
	// sequence of accepted logs may drive the quantity below zero.
	amounts := []float64{3, 4, 2, 5, 1, 2}
	for _, amount := range amounts {
		_, err := eng.LogWaste(ctx, asManager(), "Lemons", amount, "spoiled")
		if err != nil && !errors.Is(err, ErrInsufficientQuantity) {
			t.Fatalf("LogWaste(%v) error = %v", amount, err)
		}
		item, _ := st.GetItem(ctx, "Lemons")
		if item.Quantity < 0 {
			t.Fatalf("Quantity = %v after wasting %v", item.Quantity, amount)
		}
	}
}
