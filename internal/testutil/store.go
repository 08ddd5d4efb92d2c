package testutil

import (
	"context"
	"testing"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
	"github.com/davidgev86/HealthPackTracker/internal/store/csvstore"
)

// TempStore opens a CSV store in a temp directory and closes it when the
// test finishes.
func TempStore(t *testing.T) store.Store {
	t.Helper()
	st, err := csvstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// SeedItems writes items into the store, failing the test on error.
func SeedItems(t *testing.T, st store.Store, items ...*models.InventoryItem) {
	t.Helper()
	flat := make([]models.InventoryItem, len(items))
	for i, item := range items {
		flat[i] = *item
	}
	if err := st.SaveItems(context.Background(), flat); err != nil {
		t.Fatalf("seeding items: %v", err)
	}
}

// SeedWaste writes waste entries into the store, failing the test on error.
func SeedWaste(t *testing.T, st store.Store, entries ...*models.WasteEntry) {
	t.Helper()
	flat := make([]models.WasteEntry, len(entries))
	for i, entry := range entries {
		flat[i] = *entry
	}
	if err := st.SaveWasteEntries(context.Background(), flat); err != nil {
		t.Fatalf("seeding waste entries: %v", err)
	}
}
