package sqlitestore

import (
	"encoding/json"

	"github.com/davidgev86/HealthPackTracker/internal/models"
)

// schema matches the flat-file layout kind for kind. The position columns
// preserve insertion order across full-set replacement so both store
// implementations iterate identically.
const schema = `
CREATE TABLE IF NOT EXISTS inventory_items (
	position     INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	name_key     TEXT NOT NULL UNIQUE,
	unit         TEXT NOT NULL,
	quantity     REAL NOT NULL CHECK (quantity >= 0),
	par_level    REAL NOT NULL CHECK (par_level >= 0),
	category     TEXT NOT NULL DEFAULT 'General',
	unit_cost    REAL NOT NULL DEFAULT 0,
	vendor       TEXT NOT NULL DEFAULT '',
	scope        TEXT NOT NULL DEFAULT 'general',
	last_updated TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
	position      INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	email         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS vendors (
	position                   INTEGER PRIMARY KEY AUTOINCREMENT,
	name                       TEXT NOT NULL,
	name_key                   TEXT NOT NULL UNIQUE,
	contact_info               TEXT NOT NULL DEFAULT '',
	address                    TEXT NOT NULL DEFAULT '',
	phone                      TEXT NOT NULL DEFAULT '',
	email                      TEXT NOT NULL DEFAULT '',
	exclude_from_shopping_list INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS categories (
	position    INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS waste_entries (
	position  INTEGER PRIMARY KEY AUTOINCREMENT,
	id        TEXT NOT NULL UNIQUE,
	item_name TEXT NOT NULL,
	quantity  REAL NOT NULL CHECK (quantity > 0),
	unit      TEXT NOT NULL DEFAULT '',
	unit_cost REAL NOT NULL DEFAULT 0,
	reason    TEXT NOT NULL DEFAULT '',
	logged_by TEXT NOT NULL DEFAULT '',
	scope     TEXT NOT NULL DEFAULT 'general',
	logged_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS weekly_report (
	slot    INTEGER PRIMARY KEY CHECK (slot = 1),
	payload TEXT NOT NULL
);
`

// The report snapshot is one structured document, so it rides in a JSON
// payload column rather than being shredded across tables.
func encodeReport(report models.WeeklyReport) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeReport(payload string) (*models.WeeklyReport, error) {
	var report models.WeeklyReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, err
	}
	return &report, nil
}
