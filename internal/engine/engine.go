// Package engine implements the inventory data engine: validation,
// import reconciliation, stock ledger queries, waste logging, and weekly
// report generation. All mutations go through the Engine, which serializes
// access per record kind and persists through a store.Store.
package engine

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
)

// Sentinel errors for inventory mutations.
var (
	// ErrInsufficientQuantity is returned when a waste log would drive an
	// item's quantity below zero.
	ErrInsufficientQuantity = errors.New("insufficient quantity on hand")

	// ErrItemExists is returned when adding an item whose name is already
	// taken (names match case-insensitively).
	ErrItemExists = errors.New("item already exists")

	// ErrUserExists is returned when creating a user with a taken username.
	ErrUserExists = errors.New("user already exists")

	// ErrVendorExists is returned when adding a vendor whose name is taken.
	ErrVendorExists = errors.New("vendor already exists")

	// ErrCategoryExists is returned when adding a duplicate category.
	ErrCategoryExists = errors.New("category already exists")
)

// Actor identifies who is performing an operation, for attribution on
// waste entries and audit logging. Authorization is decided by the caller
// before the engine is invoked.
type Actor struct {
	Username string
	Role     models.Role
}

// Config carries the engine's tunables.
type Config struct {
	// DefaultCategory is assigned to items imported or created without one.
	DefaultCategory string

	// ReportPeriodDays is the length of the weekly report window.
	ReportPeriodDays int

	// Logger receives operational warnings (duplicate import rows, unit
	// changes). Defaults to slog.Default.
	Logger *slog.Logger

	// Now supplies the current time. Defaults to time.Now; tests override it.
	Now func() time.Time
}

// Engine is the inventory data engine.
type Engine struct {
	store store.Store
	log   *slog.Logger
	now   func() time.Time

	defaultCategory string
	periodDays      int

	// One mutex per record kind. Compound operations that touch both
	// items and waste acquire itemsMu before wasteMu.
	itemsMu      sync.Mutex
	usersMu      sync.Mutex
	wasteMu      sync.Mutex
	vendorsMu    sync.Mutex
	categoriesMu sync.Mutex
	reportMu     sync.Mutex
}

// New creates an engine backed by st.
func New(st store.Store, cfg Config) *Engine {
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = models.DefaultCategory
	}
	if cfg.ReportPeriodDays <= 0 {
		cfg.ReportPeriodDays = 7
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		store:           st,
		log:             cfg.Logger,
		now:             cfg.Now,
		defaultCategory: cfg.DefaultCategory,
		periodDays:      cfg.ReportPeriodDays,
	}
}
