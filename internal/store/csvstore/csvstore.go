// Package csvstore is the flat-file implementation of the record store.
// Each entity kind lives in one CSV file under the data directory; every
// save rewrites the whole file through a write-temp-then-rename cycle so a
// reader never observes a partially written file. The weekly report
// snapshot, being a single document rather than a record set, is kept as a
// JSON file with the same replace discipline.
package csvstore

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
)

// File names under the data directory, one per entity kind.
const (
	itemsFile      = "inventory.csv"
	usersFile      = "users.csv"
	wasteFile      = "waste_log.csv"
	vendorsFile    = "vendors.csv"
	categoriesFile = "categories.csv"
	reportFile     = "weekly_report.json"
)

// Store persists all entity kinds as flat files in a single directory.
type Store struct {
	dir string
}

var _ store.Store = (*Store)(nil)

// Open prepares a flat-file store rooted at dir, creating the directory if
// needed. Missing files read as empty record sets; they are created on
// first save.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Close is a no-op for the flat-file store; every operation opens and
// closes its own files.
func (s *Store) Close() error {
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readRows reads a CSV file and returns its header and data rows. A
// missing file is an empty record set, not an error.
func (s *Store) readRows(name string) (header []string, rows [][]string, err error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

// stageRows writes header+rows to a temporary file in the data directory
// and returns its path. The temp file is fsynced before return so a
// following rename publishes a complete file.
func (s *Store) stageRows(name string, header []string, rows [][]string) (string, error) {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", name, err)
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing %s header: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing %s rows: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("flushing %s: %w", name, err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("syncing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing temp for %s: %w", name, err)
	}
	return tmp.Name(), nil
}

// writeRows atomically replaces a CSV file with header+rows.
func (s *Store) writeRows(name string, header []string, rows [][]string) error {
	staged, err := s.stageRows(name, header, rows)
	if err != nil {
		return err
	}
	if err := os.Rename(staged, s.path(name)); err != nil {
		os.Remove(staged)
		return fmt.Errorf("publishing %s: %w", name, err)
	}
	return nil
}

// column finds a named column in a header row, or -1.
func column(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// field returns row[idx] or "" when the column is absent or the row is
// short. Older files with fewer columns stay readable.
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ----------------------------------------------------------------------
// Items
// ----------------------------------------------------------------------

// Items loads all inventory items in file order.
func (s *Store) Items(ctx context.Context) ([]models.InventoryItem, error) {
	header, rows, err := s.readRows(itemsFile)
	if err != nil {
		return nil, err
	}

	items := make([]models.InventoryItem, 0, len(rows))
	for i, row := range rows {
		item, err := decodeItem(header, row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", itemsFile, i+2, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// SaveItems atomically replaces the full item set.
func (s *Store) SaveItems(ctx context.Context, items []models.InventoryItem) error {
	header, rows := encodeItems(items)
	return s.writeRows(itemsFile, header, rows)
}

// GetItem finds an item by name, case-insensitively.
func (s *Store) GetItem(ctx context.Context, name string) (*models.InventoryItem, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	key := models.ItemKey(name)
	for i := range items {
		if items[i].Key() == key {
			return &items[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// UpsertItem inserts or replaces one item by name, preserving the
// positions of all other items.
func (s *Store) UpsertItem(ctx context.Context, item models.InventoryItem) error {
	items, err := s.Items(ctx)
	if err != nil {
		return err
	}
	items = upsertByKey(items, item, func(i models.InventoryItem) string { return i.Key() })
	return s.SaveItems(ctx, items)
}

// ----------------------------------------------------------------------
// Users
// ----------------------------------------------------------------------

// Users loads all user accounts in file order.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	header, rows, err := s.readRows(usersFile)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, models.User{
			Username:     field(row, column(header, "username")),
			PasswordHash: field(row, column(header, "password_hash")),
			Role:         models.Role(field(row, column(header, "role"))),
			Email:        field(row, column(header, "email")),
		})
	}
	return users, nil
}

// SaveUsers atomically replaces the full user set.
func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	header := []string{"username", "password_hash", "role", "email"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Username, u.PasswordHash, string(u.Role), u.Email})
	}
	return s.writeRows(usersFile, header, rows)
}

// GetUser finds a user by username.
func (s *Store) GetUser(ctx context.Context, username string) (*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// UpsertUser inserts or replaces one user by username.
func (s *Store) UpsertUser(ctx context.Context, user models.User) error {
	users, err := s.Users(ctx)
	if err != nil {
		return err
	}
	users = upsertByKey(users, user, func(u models.User) string { return u.Username })
	return s.SaveUsers(ctx, users)
}

// ----------------------------------------------------------------------
// Vendors and categories
// ----------------------------------------------------------------------

// Vendors loads all vendors in file order.
func (s *Store) Vendors(ctx context.Context) ([]models.Vendor, error) {
	header, rows, err := s.readRows(vendorsFile)
	if err != nil {
		return nil, err
	}

	vendors := make([]models.Vendor, 0, len(rows))
	for _, row := range rows {
		vendors = append(vendors, models.Vendor{
			Name:                    field(row, column(header, "name")),
			ContactInfo:             field(row, column(header, "contact_info")),
			Address:                 field(row, column(header, "address")),
			Phone:                   field(row, column(header, "phone")),
			Email:                   field(row, column(header, "email")),
			ExcludeFromShoppingList: field(row, column(header, "exclude_from_shopping_list")) == "true",
		})
	}
	return vendors, nil
}

// SaveVendors atomically replaces the full vendor set.
func (s *Store) SaveVendors(ctx context.Context, vendors []models.Vendor) error {
	header := []string{"name", "contact_info", "address", "phone", "email", "exclude_from_shopping_list"}
	rows := make([][]string, 0, len(vendors))
	for _, v := range vendors {
		excluded := "false"
		if v.ExcludeFromShoppingList {
			excluded = "true"
		}
		rows = append(rows, []string{v.Name, v.ContactInfo, v.Address, v.Phone, v.Email, excluded})
	}
	return s.writeRows(vendorsFile, header, rows)
}

// GetVendor finds a vendor by name, case-insensitively.
func (s *Store) GetVendor(ctx context.Context, name string) (*models.Vendor, error) {
	vendors, err := s.Vendors(ctx)
	if err != nil {
		return nil, err
	}
	key := models.ItemKey(name)
	for i := range vendors {
		if vendors[i].Key() == key {
			return &vendors[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// Categories loads all admin-created categories in file order.
func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	header, rows, err := s.readRows(categoriesFile)
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		created, _ := parseTime(field(row, column(header, "created_date")))
		categories = append(categories, models.Category{
			Name:        field(row, column(header, "name")),
			Description: field(row, column(header, "description")),
			CreatedAt:   created,
		})
	}
	return categories, nil
}

// SaveCategories atomically replaces the full category set.
func (s *Store) SaveCategories(ctx context.Context, categories []models.Category) error {
	header := []string{"name", "description", "created_date"}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.Name, c.Description, formatTime(c.CreatedAt)})
	}
	return s.writeRows(categoriesFile, header, rows)
}

// ----------------------------------------------------------------------
// Waste log
// ----------------------------------------------------------------------

// WasteEntries loads the waste log in file order.
func (s *Store) WasteEntries(ctx context.Context) ([]models.WasteEntry, error) {
	header, rows, err := s.readRows(wasteFile)
	if err != nil {
		return nil, err
	}

	entries := make([]models.WasteEntry, 0, len(rows))
	for i, row := range rows {
		entry, err := decodeWasteEntry(header, row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", wasteFile, i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SaveWasteEntries atomically replaces the full waste log.
func (s *Store) SaveWasteEntries(ctx context.Context, entries []models.WasteEntry) error {
	header, rows := encodeWasteEntries(entries)
	return s.writeRows(wasteFile, header, rows)
}

// CommitWaste publishes an updated item set and an appended waste entry
// together. Both new files are staged before either rename happens; a
// failure while staging leaves the live files untouched. The two renames
// themselves are not a single atomic unit, which is the store's stated
// ceiling on cross-file atomicity.
func (s *Store) CommitWaste(ctx context.Context, items []models.InventoryItem, entry models.WasteEntry) error {
	entries, err := s.WasteEntries(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	itemHeader, itemRows := encodeItems(items)
	stagedItems, err := s.stageRows(itemsFile, itemHeader, itemRows)
	if err != nil {
		return err
	}

	wasteHeader, wasteRows := encodeWasteEntries(entries)
	stagedWaste, err := s.stageRows(wasteFile, wasteHeader, wasteRows)
	if err != nil {
		os.Remove(stagedItems)
		return err
	}

	if err := os.Rename(stagedItems, s.path(itemsFile)); err != nil {
		os.Remove(stagedItems)
		os.Remove(stagedWaste)
		return fmt.Errorf("publishing %s: %w", itemsFile, err)
	}
	if err := os.Rename(stagedWaste, s.path(wasteFile)); err != nil {
		os.Remove(stagedWaste)
		return fmt.Errorf("publishing %s: %w", wasteFile, err)
	}
	return nil
}

// ----------------------------------------------------------------------
// Weekly report snapshot
// ----------------------------------------------------------------------

// Report loads the current weekly report snapshot.
func (s *Store) Report(ctx context.Context) (*models.WeeklyReport, error) {
	data, err := os.ReadFile(s.path(reportFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", reportFile, err)
	}

	var report models.WeeklyReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", reportFile, err)
	}
	return &report, nil
}

// SaveReport atomically replaces the weekly report snapshot.
func (s *Store) SaveReport(ctx context.Context, report models.WeeklyReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, reportFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp report: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("syncing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(reportFile)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing %s: %w", reportFile, err)
	}
	return nil
}

// upsertByKey replaces the first record whose key matches, or appends.
func upsertByKey[T any](records []T, record T, key func(T) string) []T {
	k := key(record)
	for i := range records {
		if key(records[i]) == k {
			records[i] = record
			return records
		}
	}
	return append(records, record)
}
