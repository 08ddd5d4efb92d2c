package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidgev86/HealthPackTracker/internal/auth"
	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
)

// CreateUser adds an account with a hashed password.
func (e *Engine) CreateUser(ctx context.Context, actor Actor, username, password string, role models.Role, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &ValidationError{Field: "username", Code: CodeMissingField}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Code: CodeMissingField}
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	e.usersMu.Lock()
	defer e.usersMu.Unlock()

	if _, err := e.store.GetUser(ctx, username); err == nil {
		return nil, fmt.Errorf("user %q: %w", username, ErrUserExists)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Email:        email,
	}
	if err := e.store.UpsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}
	e.log.Info("user created", "by", actor.Username, "user", username, "role", role)
	return &user, nil
}

// DeleteUser removes an account. The last admin cannot be deleted.
func (e *Engine) DeleteUser(ctx context.Context, actor Actor, username string) error {
	e.usersMu.Lock()
	defer e.usersMu.Unlock()

	users, err := e.store.Users(ctx)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	kept := users[:0:0]
	found := false
	admins := 0
	for _, user := range users {
		if user.Role == models.RoleAdmin {
			admins++
		}
		if strings.EqualFold(user.Username, username) {
			found = true
			if user.Role == models.RoleAdmin {
				admins--
			}
			continue
		}
		kept = append(kept, user)
	}
	if !found {
		return fmt.Errorf("user %q: %w", username, store.ErrNotFound)
	}
	if admins == 0 {
		return fmt.Errorf("deleting %q would leave no admin account", username)
	}
	if err := e.store.SaveUsers(ctx, kept); err != nil {
		return fmt.Errorf("saving users: %w", err)
	}
	e.log.Info("user deleted", "by", actor.Username, "user", username)
	return nil
}

// Users returns all accounts in stored order.
func (e *Engine) Users(ctx context.Context) ([]models.User, error) {
	return e.store.Users(ctx)
}

// AddVendor registers a supplier.
func (e *Engine) AddVendor(ctx context.Context, actor Actor, vendor models.Vendor) error {
	if strings.TrimSpace(vendor.Name) == "" {
		return &ValidationError{Field: "name", Code: CodeMissingField}
	}

	e.vendorsMu.Lock()
	defer e.vendorsMu.Unlock()

	if _, err := e.store.GetVendor(ctx, vendor.Name); err == nil {
		return fmt.Errorf("vendor %q: %w", vendor.Name, ErrVendorExists)
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("checking for existing vendor: %w", err)
	}

	vendors, err := e.store.Vendors(ctx)
	if err != nil {
		return fmt.Errorf("loading vendors: %w", err)
	}
	if err := e.store.SaveVendors(ctx, append(vendors, vendor)); err != nil {
		return fmt.Errorf("saving vendors: %w", err)
	}
	e.log.Info("vendor added", "by", actor.Username, "vendor", vendor.Name)
	return nil
}

// DeleteVendor removes a supplier. Items referencing it keep the vendor
// name as free text.
func (e *Engine) DeleteVendor(ctx context.Context, actor Actor, name string) error {
	e.vendorsMu.Lock()
	defer e.vendorsMu.Unlock()

	vendors, err := e.store.Vendors(ctx)
	if err != nil {
		return fmt.Errorf("loading vendors: %w", err)
	}
	key := models.ItemKey(name)
	kept := vendors[:0:0]
	found := false
	for _, vendor := range vendors {
		if vendor.Key() == key {
			found = true
			continue
		}
		kept = append(kept, vendor)
	}
	if !found {
		return fmt.Errorf("vendor %q: %w", name, store.ErrNotFound)
	}
	if err := e.store.SaveVendors(ctx, kept); err != nil {
		return fmt.Errorf("saving vendors: %w", err)
	}
	e.log.Info("vendor deleted", "by", actor.Username, "vendor", name)
	return nil
}

// Vendors returns all suppliers in stored order.
func (e *Engine) Vendors(ctx context.Context) ([]models.Vendor, error) {
	return e.store.Vendors(ctx)
}

// AddCategory registers a custom category alongside the built-in set.
func (e *Engine) AddCategory(ctx context.Context, actor Actor, category models.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return &ValidationError{Field: "name", Code: CodeMissingField}
	}

	e.categoriesMu.Lock()
	defer e.categoriesMu.Unlock()

	known, err := e.categorySet(ctx)
	if err != nil {
		return err
	}
	if known[category.Key()] {
		return fmt.Errorf("category %q: %w", category.Name, ErrCategoryExists)
	}

	stored, err := e.store.Categories(ctx)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = e.now().UTC()
	}
	if err := e.store.SaveCategories(ctx, append(stored, category)); err != nil {
		return fmt.Errorf("saving categories: %w", err)
	}
	e.log.Info("category added", "by", actor.Username, "category", category.Name)
	return nil
}

// DeleteCategory removes a custom category. The built-in categories
// cannot be removed, and items keep whatever category name they carry.
func (e *Engine) DeleteCategory(ctx context.Context, actor Actor, name string) error {
	e.categoriesMu.Lock()
	defer e.categoriesMu.Unlock()

	stored, err := e.store.Categories(ctx)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}
	key := models.ItemKey(name)
	kept := stored[:0:0]
	found := false
	for _, category := range stored {
		if category.Key() == key {
			found = true
			continue
		}
		kept = append(kept, category)
	}
	if !found {
		return fmt.Errorf("category %q: %w", name, store.ErrNotFound)
	}
	if err := e.store.SaveCategories(ctx, kept); err != nil {
		return fmt.Errorf("saving categories: %w", err)
	}
	e.log.Info("category deleted", "by", actor.Username, "category", name)
	return nil
}

// CategoryNames returns the built-in categories followed by stored
// custom ones, without duplicates.
func (e *Engine) CategoryNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(models.DefaultCategories))
	seen := make(map[string]bool)
	for _, name := range models.DefaultCategories {
		names = append(names, name)
		seen[models.ItemKey(name)] = true
	}
	stored, err := e.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	for _, category := range stored {
		if !seen[category.Key()] {
			names = append(names, category.Name)
			seen[category.Key()] = true
		}
	}
	return names, nil
}

// Bootstrap seeds a fresh data store: a default admin account (when no
// users exist and seeding is enabled) and the built-in vendor list (when
// no vendors exist). Safe to call on every startup.
func (e *Engine) Bootstrap(ctx context.Context, seedAdmin bool) error {
	users, err := e.store.Users(ctx)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if seedAdmin && len(users) == 0 {
		hash, err := auth.HashPassword("admin123")
		if err != nil {
			return err
		}
		if err := e.store.SaveUsers(ctx, []models.User{{
			Username:     "admin",
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		}}); err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
		e.log.Warn("seeded default admin account, change its password", "user", "admin")
	}

	vendors, err := e.store.Vendors(ctx)
	if err != nil {
		return fmt.Errorf("loading vendors: %w", err)
	}
	if len(vendors) == 0 {
		seed := make([]models.Vendor, 0, len(models.DefaultVendors))
		for _, name := range models.DefaultVendors {
			seed = append(seed, models.Vendor{Name: name})
		}
		if err := e.store.SaveVendors(ctx, seed); err != nil {
			return fmt.Errorf("seeding vendors: %w", err)
		}
		e.log.Info("seeded default vendors", "count", len(seed))
	}
	return nil
}
