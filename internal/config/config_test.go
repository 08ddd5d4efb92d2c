package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestStorageConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StorageConfig
		wantErr bool
	}{
		{"CSV with data dir", StorageConfig{Backend: BackendCSV, DataDir: "data"}, false},
		{"CSV missing data dir", StorageConfig{Backend: BackendCSV}, true},
		{"SQLite with path", StorageConfig{Backend: BackendSQLite, DatabasePath: "inv.db"}, false},
		{"SQLite missing path", StorageConfig{Backend: BackendSQLite}, true},
		{"Unknown backend", StorageConfig{Backend: "postgres"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReportConfig_Validate(t *testing.T) {
	if err := (&ReportConfig{PeriodDays: 7}).Validate(); err != nil {
		t.Errorf("7-day period should validate: %v", err)
	}
	if err := (&ReportConfig{PeriodDays: 0}).Validate(); err == nil {
		t.Error("zero-day period should fail validation")
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.toml")

	content := `
[storage]
backend = "sqlite"
database_path = "kitchen.db"

[report]
period_days = 7
`
	if err := os.WriteFile(path, []byte(content), 0640); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, loadedFrom, err := Load(path, false)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if loadedFrom != path {
		t.Errorf("expected path %s, got %s", path, loadedFrom)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", cfg.Storage.Backend)
	}
	// Unspecified values keep their defaults.
	if cfg.Inventory.DefaultCategory != "General" {
		t.Errorf("expected default category General, got %s", cfg.Inventory.DefaultCategory)
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")

	content := `
[storage]
backend = "carrier-pigeon"
`
	if err := os.WriteFile(path, []byte(content), 0640); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, _, err := Load(path, false)
	if err == nil {
		t.Fatal("expected load to fail on invalid backend")
	}
	if !strings.Contains(err.Error(), "backend") {
		t.Errorf("expected backend mention in error, got: %v", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.toml")

	cfg := Default()
	cfg.Report.PeriodDays = 14
	if err := Save(cfg, path); err != nil {
		t.Fatalf("saving config: %v", err)
	}

	got, _, err := Load(path, false)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if got.Report.PeriodDays != 14 {
		t.Errorf("expected period_days 14, got %d", got.Report.PeriodDays)
	}
}
