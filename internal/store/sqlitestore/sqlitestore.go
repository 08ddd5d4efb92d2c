// Package sqlitestore is the structured-store implementation of the record
// store, backed by SQLite. It exists for installs that outgrow flat CSV
// files; callers see the exact same contract. WAL mode keeps the file
// power-loss resilient, and the compound waste commit becomes a real
// transaction here.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"

	_ "modernc.org/sqlite"
)

// Store persists all entity kinds in a single SQLite database.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the
// schema. The connection pool is capped at one connection since SQLite
// supports a single writer.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_txlock=immediate&_timeout=5000&_fk=true", path)
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenInMemory opens an in-memory database for testing. Foreign keys are
// enabled but WAL mode is skipped.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.applySchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	pragmas := []struct {
		name   string
		pragma string
	}{
		// WAL mode for power-loss resilience
		{"journal_mode", "PRAGMA journal_mode=WAL"},
		{"synchronous", "PRAGMA synchronous=NORMAL"},
		{"busy_timeout", "PRAGMA busy_timeout=5000"},
		{"foreign_keys", "PRAGMA foreign_keys=ON"},
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p.pragma); err != nil {
			return fmt.Errorf("setting %s: %w", p.name, err)
		}
	}
	return s.applySchema()
}

func (s *Store) applySchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// withTx executes fn inside a transaction, committing on nil and rolling
// back otherwise.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back after error %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ----------------------------------------------------------------------
// Items
// ----------------------------------------------------------------------

const itemColumns = "name, unit, quantity, par_level, category, unit_cost, vendor, scope, last_updated"

// Items loads all inventory items in insertion order.
func (s *Store) Items(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM inventory_items ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveItems replaces the full item set in one transaction.
func (s *Store) SaveItems(ctx context.Context, items []models.InventoryItem) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceItems(ctx, tx, items)
	})
}

func replaceItems(ctx context.Context, tx *sql.Tx, items []models.InventoryItem) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM inventory_items"); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}
	for _, item := range items {
		if err := insertItem(ctx, tx, item); err != nil {
			return err
		}
	}
	return nil
}

func insertItem(ctx context.Context, tx *sql.Tx, item models.InventoryItem) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO inventory_items (name, name_key, unit, quantity, par_level, category, unit_cost, vendor, scope, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name,
		item.Key(),
		item.Unit,
		item.Quantity,
		item.ParLevel,
		item.Category,
		item.UnitCost,
		item.Vendor,
		string(item.EffectiveScope()),
		formatTime(item.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("inserting item %s: %w", item.Name, err)
	}
	return nil
}

// GetItem finds an item by name, case-insensitively.
func (s *Store) GetItem(ctx context.Context, name string) (*models.InventoryItem, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM inventory_items WHERE name_key = ?", models.ItemKey(name))
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertItem updates an item in place (keeping its position) or appends it.
func (s *Store) UpsertItem(ctx context.Context, item models.InventoryItem) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE inventory_items
			SET name = ?, unit = ?, quantity = ?, par_level = ?, category = ?,
				unit_cost = ?, vendor = ?, scope = ?, last_updated = ?
			WHERE name_key = ?`,
			item.Name,
			item.Unit,
			item.Quantity,
			item.ParLevel,
			item.Category,
			item.UnitCost,
			item.Vendor,
			string(item.EffectiveScope()),
			formatTime(item.LastUpdated),
			item.Key(),
		)
		if err != nil {
			return fmt.Errorf("updating item %s: %w", item.Name, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update result: %w", err)
		}
		if affected == 0 {
			return insertItem(ctx, tx, item)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.InventoryItem, error) {
	var item models.InventoryItem
	var scope, updated string
	err := row.Scan(
		&item.Name,
		&item.Unit,
		&item.Quantity,
		&item.ParLevel,
		&item.Category,
		&item.UnitCost,
		&item.Vendor,
		&scope,
		&updated,
	)
	if err != nil {
		return models.InventoryItem{}, err
	}
	item.Scope = models.Scope(scope)
	item.LastUpdated, err = parseTime(updated)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("parsing last_updated for %s: %w", item.Name, err)
	}
	return item, nil
}

// ----------------------------------------------------------------------
// Users
// ----------------------------------------------------------------------

// Users loads all users in insertion order.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT username, password_hash, role, email FROM users ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.Username, &u.PasswordHash, &role, &u.Email); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Role = models.Role(role)
		users = append(users, u)
	}
	return users, rows.Err()
}

// SaveUsers replaces the full user set in one transaction.
func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM users"); err != nil {
			return fmt.Errorf("clearing users: %w", err)
		}
		for _, u := range users {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO users (username, password_hash, role, email) VALUES (?, ?, ?, ?)",
				u.Username, u.PasswordHash, string(u.Role), u.Email); err != nil {
				return fmt.Errorf("inserting user %s: %w", u.Username, err)
			}
		}
		return nil
	})
}

// GetUser finds a user by username.
func (s *Store) GetUser(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	var role string
	err := s.db.QueryRowContext(ctx,
		"SELECT username, password_hash, role, email FROM users WHERE username = ?",
		username).Scan(&u.Username, &u.PasswordHash, &role, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %s: %w", username, err)
	}
	u.Role = models.Role(role)
	return &u, nil
}

// UpsertUser updates a user in place or appends one.
func (s *Store) UpsertUser(ctx context.Context, user models.User) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE users SET password_hash = ?, role = ?, email = ? WHERE username = ?",
			user.PasswordHash, string(user.Role), user.Email, user.Username)
		if err != nil {
			return fmt.Errorf("updating user %s: %w", user.Username, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update result: %w", err)
		}
		if affected == 0 {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO users (username, password_hash, role, email) VALUES (?, ?, ?, ?)",
				user.Username, user.PasswordHash, string(user.Role), user.Email); err != nil {
				return fmt.Errorf("inserting user %s: %w", user.Username, err)
			}
		}
		return nil
	})
}

// ----------------------------------------------------------------------
// Vendors and categories
// ----------------------------------------------------------------------

// Vendors loads all vendors in insertion order.
func (s *Store) Vendors(ctx context.Context) ([]models.Vendor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, contact_info, address, phone, email, exclude_from_shopping_list
		FROM vendors ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying vendors: %w", err)
	}
	defer rows.Close()

	var vendors []models.Vendor
	for rows.Next() {
		var v models.Vendor
		var excluded int
		if err := rows.Scan(&v.Name, &v.ContactInfo, &v.Address, &v.Phone, &v.Email, &excluded); err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}
		v.ExcludeFromShoppingList = excluded != 0
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// SaveVendors replaces the full vendor set in one transaction.
func (s *Store) SaveVendors(ctx context.Context, vendors []models.Vendor) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM vendors"); err != nil {
			return fmt.Errorf("clearing vendors: %w", err)
		}
		for _, v := range vendors {
			excluded := 0
			if v.ExcludeFromShoppingList {
				excluded = 1
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO vendors (name, name_key, contact_info, address, phone, email, exclude_from_shopping_list)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				v.Name, v.Key(), v.ContactInfo, v.Address, v.Phone, v.Email, excluded); err != nil {
				return fmt.Errorf("inserting vendor %s: %w", v.Name, err)
			}
		}
		return nil
	})
}

// GetVendor finds a vendor by name, case-insensitively.
func (s *Store) GetVendor(ctx context.Context, name string) (*models.Vendor, error) {
	var v models.Vendor
	var excluded int
	err := s.db.QueryRowContext(ctx, `
		SELECT name, contact_info, address, phone, email, exclude_from_shopping_list
		FROM vendors WHERE name_key = ?`, models.ItemKey(name)).
		Scan(&v.Name, &v.ContactInfo, &v.Address, &v.Phone, &v.Email, &excluded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying vendor %s: %w", name, err)
	}
	v.ExcludeFromShoppingList = excluded != 0
	return &v, nil
}

// Categories loads all categories in insertion order.
func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, description, created_at FROM categories ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		var created string
		if err := rows.Scan(&c.Name, &c.Description, &created); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.CreatedAt, err = parseTime(created)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for %s: %w", c.Name, err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SaveCategories replaces the full category set in one transaction.
func (s *Store) SaveCategories(ctx context.Context, categories []models.Category) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM categories"); err != nil {
			return fmt.Errorf("clearing categories: %w", err)
		}
		for _, c := range categories {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)",
				c.Name, c.Description, formatTime(c.CreatedAt)); err != nil {
				return fmt.Errorf("inserting category %s: %w", c.Name, err)
			}
		}
		return nil
	})
}

// ----------------------------------------------------------------------
// Waste log
// ----------------------------------------------------------------------

const wasteColumns = "id, item_name, quantity, unit, unit_cost, reason, logged_by, scope, logged_at"

// WasteEntries loads the waste log in insertion order.
func (s *Store) WasteEntries(ctx context.Context) ([]models.WasteEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+wasteColumns+" FROM waste_entries ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying waste entries: %w", err)
	}
	defer rows.Close()

	var entries []models.WasteEntry
	for rows.Next() {
		entry, err := scanWasteEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveWasteEntries replaces the full waste log in one transaction.
func (s *Store) SaveWasteEntries(ctx context.Context, entries []models.WasteEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM waste_entries"); err != nil {
			return fmt.Errorf("clearing waste entries: %w", err)
		}
		for _, e := range entries {
			if err := insertWasteEntry(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertWasteEntry(ctx context.Context, tx *sql.Tx, e models.WasteEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO waste_entries (id, item_name, quantity, unit, unit_cost, reason, logged_by, scope, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ItemName, e.Quantity, e.Unit, e.UnitCost, e.Reason, e.LoggedBy,
		string(e.EffectiveScope()), formatTime(e.LoggedAt))
	if err != nil {
		return fmt.Errorf("inserting waste entry %s: %w", e.ID, err)
	}
	return nil
}

// CommitWaste writes the updated item set and the new waste entry in one
// transaction.
func (s *Store) CommitWaste(ctx context.Context, items []models.InventoryItem, entry models.WasteEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := replaceItems(ctx, tx, items); err != nil {
			return err
		}
		return insertWasteEntry(ctx, tx, entry)
	})
}

func scanWasteEntry(row rowScanner) (models.WasteEntry, error) {
	var e models.WasteEntry
	var scope, loggedAt string
	err := row.Scan(&e.ID, &e.ItemName, &e.Quantity, &e.Unit, &e.UnitCost, &e.Reason, &e.LoggedBy, &scope, &loggedAt)
	if err != nil {
		return models.WasteEntry{}, fmt.Errorf("scanning waste entry: %w", err)
	}
	e.Scope = models.Scope(scope)
	e.LoggedAt, err = parseTime(loggedAt)
	if err != nil {
		return models.WasteEntry{}, fmt.Errorf("parsing logged_at for %s: %w", e.ID, err)
	}
	return e, nil
}

// ----------------------------------------------------------------------
// Weekly report snapshot
// ----------------------------------------------------------------------

// Report loads the current weekly report snapshot.
func (s *Store) Report(ctx context.Context) (*models.WeeklyReport, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM weekly_report WHERE slot = 1").Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying report: %w", err)
	}
	return decodeReport(payload)
}

// SaveReport overwrites the weekly report snapshot.
func (s *Store) SaveReport(ctx context.Context, report models.WeeklyReport) error {
	payload, err := encodeReport(report)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO weekly_report (slot, payload) VALUES (1, ?)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload`, payload)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
