// Package store defines the tabular record repository contract used by the
// inventory engine. Implementations own the canonical copies of all
// entities; everything above them holds transient, read-oriented views.
//
// A Store promises atomic full-set replacement per entity kind but no
// consistency across concurrent calls. Callers serialize their own
// load-mutate-save cycles; running two writer processes against the same
// backing files is unsupported.
package store

import (
	"context"
	"errors"

	"github.com/davidgev86/HealthPackTracker/internal/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Kind identifies an entity kind (backing file or table).
type Kind string

const (
	KindItems      Kind = "inventory"
	KindUsers      Kind = "users"
	KindWaste      Kind = "waste_log"
	KindVendors    Kind = "vendors"
	KindCategories Kind = "categories"
	KindReport     Kind = "report"
)

// Store is the persistence contract for the inventory engine.
//
// Load methods return records in stable insertion order. Save methods
// replace the full record set for the kind atomically: a crash mid-save
// must leave the prior set intact. Upserts preserve the positions of all
// records not being replaced.
type Store interface {
	Items(ctx context.Context) ([]models.InventoryItem, error)
	SaveItems(ctx context.Context, items []models.InventoryItem) error
	GetItem(ctx context.Context, name string) (*models.InventoryItem, error)
	UpsertItem(ctx context.Context, item models.InventoryItem) error

	Users(ctx context.Context) ([]models.User, error)
	SaveUsers(ctx context.Context, users []models.User) error
	GetUser(ctx context.Context, username string) (*models.User, error)
	UpsertUser(ctx context.Context, user models.User) error

	Vendors(ctx context.Context) ([]models.Vendor, error)
	SaveVendors(ctx context.Context, vendors []models.Vendor) error
	GetVendor(ctx context.Context, name string) (*models.Vendor, error)

	Categories(ctx context.Context) ([]models.Category, error)
	SaveCategories(ctx context.Context, categories []models.Category) error

	WasteEntries(ctx context.Context) ([]models.WasteEntry, error)
	SaveWasteEntries(ctx context.Context, entries []models.WasteEntry) error

	// CommitWaste publishes an updated item set and an appended waste entry
	// together. Both changes become visible or neither does: implementations
	// stage both writes before publishing either.
	CommitWaste(ctx context.Context, items []models.InventoryItem, entry models.WasteEntry) error

	// Report returns the current weekly report snapshot, or ErrNotFound when
	// none has been generated yet. SaveReport overwrites the snapshot.
	Report(ctx context.Context) (*models.WeeklyReport, error)
	SaveReport(ctx context.Context, report models.WeeklyReport) error

	Close() error
}
