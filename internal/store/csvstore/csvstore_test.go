package csvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
)

func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	return s, context.Background()
}

func testItem(name string, quantity float64) models.InventoryItem {
	return models.InventoryItem{
		Name:        name,
		Unit:        "kg",
		Quantity:    quantity,
		ParLevel:    10,
		Category:    "Produce",
		UnitCost:    2.5,
		Scope:       models.ScopeGeneral,
		LastUpdated: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_EmptyReads(t *testing.T) {
	s, ctx := newTestStore(t)

	items, err := s.Items(ctx)
	if err != nil {
		t.Fatalf("reading empty store: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}

	if _, err := s.GetItem(ctx, "Rice"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Report(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing report, got %v", err)
	}
}

func TestStore_SaveAndLoadItems(t *testing.T) {
	s, ctx := newTestStore(t)

	want := []models.InventoryItem{
		testItem("Rice", 12),
		testItem("Broccoli", 8),
		testItem("Olive Oil", 3),
	}
	if err := s.SaveItems(ctx, want); err != nil {
		t.Fatalf("saving items: %v", err)
	}

	got, err := s.Items(ctx)
	if err != nil {
		t.Fatalf("loading items: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Name != want[i].Name {
			t.Errorf("item %d: expected order-preserved name %s, got %s", i, want[i].Name, got[i].Name)
		}
		if got[i].Quantity != want[i].Quantity {
			t.Errorf("item %d: expected quantity %v, got %v", i, want[i].Quantity, got[i].Quantity)
		}
		if !got[i].LastUpdated.Equal(want[i].LastUpdated) {
			t.Errorf("item %d: expected timestamp %v, got %v", i, want[i].LastUpdated, got[i].LastUpdated)
		}
	}
}

func TestStore_GetItem_CaseInsensitive(t *testing.T) {
	s, ctx := newTestStore(t)

	if err := s.SaveItems(ctx, []models.InventoryItem{testItem("Broccoli", 8)}); err != nil {
		t.Fatalf("saving items: %v", err)
	}

	for _, name := range []string{"Broccoli", "broccoli", "BROCCOLI", " broccoli "} {
		got, err := s.GetItem(ctx, name)
		if err != nil {
			t.Fatalf("GetItem(%q): %v", name, err)
		}
		if got.Name != "Broccoli" {
			t.Errorf("GetItem(%q) returned %s", name, got.Name)
		}
	}
}

func TestStore_UpsertItem(t *testing.T) {
	s, ctx := newTestStore(t)

	initial := []models.InventoryItem{
		testItem("Rice", 12),
		testItem("Broccoli", 8),
		testItem("Olive Oil", 3),
	}
	if err := s.SaveItems(ctx, initial); err != nil {
		t.Fatalf("saving items: %v", err)
	}

	t.Run("Replace preserves position", func(t *testing.T) {
		updated := testItem("broccoli", 20)
		if err := s.UpsertItem(ctx, updated); err != nil {
			t.Fatalf("upserting: %v", err)
		}

		items, err := s.Items(ctx)
		if err != nil {
			t.Fatalf("loading items: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		if items[1].Key() != "broccoli" || items[1].Quantity != 20 {
			t.Errorf("expected broccoli at position 1 with quantity 20, got %s qty %v", items[1].Name, items[1].Quantity)
		}
	})

	t.Run("Insert appends", func(t *testing.T) {
		if err := s.UpsertItem(ctx, testItem("Butter", 4)); err != nil {
			t.Fatalf("upserting: %v", err)
		}

		items, err := s.Items(ctx)
		if err != nil {
			t.Fatalf("loading items: %v", err)
		}
		if len(items) != 4 {
			t.Fatalf("expected 4 items, got %d", len(items))
		}
		if items[3].Name != "Butter" {
			t.Errorf("expected Butter appended last, got %s", items[3].Name)
		}
	})
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	s, ctx := newTestStore(t)

	if err := s.SaveItems(ctx, []models.InventoryItem{testItem("Rice", 12)}); err != nil {
		t.Fatalf("saving items: %v", err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("reading data dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestStore_CommitWaste(t *testing.T) {
	s, ctx := newTestStore(t)

	items := []models.InventoryItem{testItem("Broccoli", 8)}
	if err := s.SaveItems(ctx, items); err != nil {
		t.Fatalf("saving items: %v", err)
	}

	items[0].Quantity = 5
	entry := models.WasteEntry{
		ID:       "w-1",
		ItemName: "Broccoli",
		Quantity: 3,
		Unit:     "kg",
		UnitCost: 2.5,
		Reason:   "spoilage",
		LoggedBy: "maria",
		Scope:    models.ScopeGeneral,
		LoggedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	if err := s.CommitWaste(ctx, items, entry); err != nil {
		t.Fatalf("committing waste: %v", err)
	}

	got, err := s.GetItem(ctx, "Broccoli")
	if err != nil {
		t.Fatalf("loading item: %v", err)
	}
	if got.Quantity != 5 {
		t.Errorf("expected quantity 5 after commit, got %v", got.Quantity)
	}

	log, err := s.WasteEntries(ctx)
	if err != nil {
		t.Fatalf("loading waste log: %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("expected 1 waste entry, got %d", len(log))
	}
	if log[0].ID != "w-1" || log[0].Quantity != 3 {
		t.Errorf("unexpected waste entry: %+v", log[0])
	}
}

func TestStore_UsersRoundTrip(t *testing.T) {
	s, ctx := newTestStore(t)

	users := []models.User{
		{Username: "admin", PasswordHash: "$2a$10$abc", Role: models.RoleAdmin, Email: "admin@hpm.test"},
		{Username: "maria", PasswordHash: "$2a$10$def", Role: models.RoleStaff},
	}
	if err := s.SaveUsers(ctx, users); err != nil {
		t.Fatalf("saving users: %v", err)
	}

	got, err := s.GetUser(ctx, "maria")
	if err != nil {
		t.Fatalf("getting user: %v", err)
	}
	if got.Role != models.RoleStaff {
		t.Errorf("expected staff role, got %s", got.Role)
	}

	if _, err := s.GetUser(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_VendorsRoundTrip(t *testing.T) {
	s, ctx := newTestStore(t)

	vendors := []models.Vendor{
		{Name: "Costco", Phone: "555-0100"},
		{Name: "Keany Produce", ExcludeFromShoppingList: true},
	}
	if err := s.SaveVendors(ctx, vendors); err != nil {
		t.Fatalf("saving vendors: %v", err)
	}

	got, err := s.GetVendor(ctx, "keany produce")
	if err != nil {
		t.Fatalf("getting vendor: %v", err)
	}
	if !got.ExcludeFromShoppingList {
		t.Error("expected shopping list exclusion to survive the round trip")
	}
}

func TestStore_ReportOverwrite(t *testing.T) {
	s, ctx := newTestStore(t)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	first := models.WeeklyReport{
		ID:             "r-1",
		PeriodStart:    start,
		PeriodEnd:      start.AddDate(0, 0, 7),
		TotalValuation: 100,
		ByCategory:     map[string]models.CategoryAggregate{"Produce": {Quantity: 10, Value: 100}},
	}
	if err := s.SaveReport(ctx, first); err != nil {
		t.Fatalf("saving report: %v", err)
	}

	second := first
	second.ID = "r-2"
	second.TotalValuation = 150
	if err := s.SaveReport(ctx, second); err != nil {
		t.Fatalf("overwriting report: %v", err)
	}

	got, err := s.Report(ctx)
	if err != nil {
		t.Fatalf("loading report: %v", err)
	}
	if got.ID != "r-2" || got.TotalValuation != 150 {
		t.Errorf("expected overwritten report, got %+v", got)
	}
	if got.ByCategory["Produce"].Quantity != 10 {
		t.Errorf("category breakdown lost in round trip: %+v", got.ByCategory)
	}
}

func TestStore_ReadsLegacyFileWithoutNewColumns(t *testing.T) {
	s, ctx := newTestStore(t)

	// Inventory written by the first release: no vendor or scope columns.
	legacy := "name,unit,quantity,par_level,category,unit_cost,last_updated\n" +
		"Rice,kg,12,20,Pantry,1.2,2025-06-01T12:00:00Z\n"
	if err := os.WriteFile(filepath.Join(s.Dir(), "inventory.csv"), []byte(legacy), 0640); err != nil {
		t.Fatalf("writing legacy file: %v", err)
	}

	items, err := s.Items(ctx)
	if err != nil {
		t.Fatalf("loading legacy items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].EffectiveScope() != models.ScopeGeneral {
		t.Errorf("legacy rows should default to general scope, got %v", items[0].Scope)
	}
	if items[0].Vendor != "" {
		t.Errorf("expected empty vendor, got %q", items[0].Vendor)
	}
}
