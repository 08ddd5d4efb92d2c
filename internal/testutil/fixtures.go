// Package testutil provides shared fixtures and store helpers for tests.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidgev86/HealthPackTracker/internal/models"
)

// FixtureItem creates a test inventory item with sensible defaults.
func FixtureItem(overrides ...func(*models.InventoryItem)) *models.InventoryItem {
	item := &models.InventoryItem{
		Name:        "Jasmine Rice",
		Unit:        "lbs",
		Quantity:    10,
		ParLevel:    5,
		Category:    "Pantry",
		UnitCost:    1.25,
		Vendor:      "US Foods",
		Scope:       models.ScopeGeneral,
		LastUpdated: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	for _, override := range overrides {
		override(item)
	}

	return item
}

// FixtureLowStockItem creates an item sitting below its par level.
func FixtureLowStockItem(overrides ...func(*models.InventoryItem)) *models.InventoryItem {
	return FixtureItem(append([]func(*models.InventoryItem){
		func(i *models.InventoryItem) {
			i.Name = "Broccoli Crowns"
			i.Category = "Produce"
			i.Quantity = 2
			i.ParLevel = 8
		},
	}, overrides...)...)
}

// FixtureHPMItem creates an item in the restricted scope.
func FixtureHPMItem(overrides ...func(*models.InventoryItem)) *models.InventoryItem {
	return FixtureItem(append([]func(*models.InventoryItem){
		func(i *models.InventoryItem) {
			i.Name = "Sealed Meal Tray"
			i.Category = "Frozen Bulk Items"
			i.Scope = models.ScopeHPM
		},
	}, overrides...)...)
}

// FixtureUser creates a test user. The password hash is not a real
// bcrypt hash; use auth.HashPassword in tests that need to log in.
func FixtureUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		Username:     "pat",
		PasswordHash: "$2a$10$fixturefixturefixturefixturefixturefixturefixturefix",
		Role:         models.RoleStaff,
		Email:        "pat@example.com",
	}

	for _, override := range overrides {
		override(user)
	}

	return user
}

// FixtureWasteEntry creates a test waste log entry.
func FixtureWasteEntry(overrides ...func(*models.WasteEntry)) *models.WasteEntry {
	entry := &models.WasteEntry{
		ID:       uuid.New().String(),
		ItemName: "Jasmine Rice",
		Quantity: 2,
		Unit:     "lbs",
		UnitCost: 1.25,
		Reason:   "spoiled",
		LoggedBy: "pat",
		Scope:    models.ScopeGeneral,
		LoggedAt: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
	}

	for _, override := range overrides {
		override(entry)
	}

	return entry
}

// FixtureVendor creates a test vendor.
func FixtureVendor(overrides ...func(*models.Vendor)) *models.Vendor {
	vendor := &models.Vendor{
		Name:  "US Foods",
		Phone: "555-0142",
		Email: "orders@usfoods.example.com",
	}

	for _, override := range overrides {
		override(vendor)
	}

	return vendor
}
