// Package config provides configuration management for the HealthPack
// inventory tracker. Configurations are loaded from TOML files with
// XDG-compliant paths.
package config

import (
	"errors"
	"fmt"
)

// Config holds the complete application configuration.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Inventory InventoryConfig `toml:"inventory"`
	Report    ReportConfig    `toml:"report"`
	Display   DisplayConfig   `toml:"display"`
	Logging   LoggingConfig   `toml:"logging"`
}

// StorageBackend selects the record store implementation.
type StorageBackend string

const (
	BackendCSV    StorageBackend = "csv"
	BackendSQLite StorageBackend = "sqlite"
)

// StorageConfig controls where and how records are persisted.
type StorageConfig struct {
	Backend StorageBackend `toml:"backend"`
	// DataDir holds the CSV files when the csv backend is active.
	DataDir string `toml:"data_dir"`
	// DatabasePath is the SQLite file when the sqlite backend is active.
	DatabasePath string `toml:"database_path"`
}

// InventoryConfig controls inventory policy knobs.
type InventoryConfig struct {
	// DefaultCategory is assigned to imported rows without a category.
	DefaultCategory string `toml:"default_category"`
	// BootstrapAdmin seeds a default admin account when the user set is
	// empty on startup.
	BootstrapAdmin bool `toml:"bootstrap_admin"`
}

// ReportConfig controls weekly report generation.
type ReportConfig struct {
	// PeriodDays is the report window length. Seven matches the weekly
	// spreadsheet cadence; shorter values exist for testing.
	PeriodDays int `toml:"period_days"`
}

// DisplayConfig controls TUI appearance.
type DisplayConfig struct {
	ColorScheme ColorScheme `toml:"color_scheme"`
	DateFormat  string      `toml:"date_format"`
}

// ColorScheme defines the terminal color palette.
type ColorScheme string

const (
	ColorSchemeGreen ColorScheme = "green"
	ColorSchemeAmber ColorScheme = "amber"
	ColorSchemeWhite ColorScheme = "white"
)

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level LogLevel `toml:"level"`
	File  string   `toml:"file"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("storage: %w", err))
	}
	if err := c.Report.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("report: %w", err))
	}
	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks that the storage configuration is valid.
func (s *StorageConfig) Validate() error {
	var errs []error

	switch s.Backend {
	case BackendCSV:
		if s.DataDir == "" {
			errs = append(errs, errors.New("data_dir is required for the csv backend"))
		}
	case BackendSQLite:
		if s.DatabasePath == "" {
			errs = append(errs, errors.New("database_path is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid backend: %s", s.Backend))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks that the report configuration is valid.
func (r *ReportConfig) Validate() error {
	if r.PeriodDays < 1 {
		return errors.New("period_days must be at least 1")
	}
	return nil
}

// Validate checks that the display configuration is valid.
func (d *DisplayConfig) Validate() error {
	validSchemes := map[ColorScheme]bool{
		ColorSchemeGreen: true,
		ColorSchemeAmber: true,
		ColorSchemeWhite: true,
	}
	if !validSchemes[d.ColorScheme] && d.ColorScheme != "" {
		return fmt.Errorf("invalid color_scheme: %s", d.ColorScheme)
	}
	return nil
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}
	if !validLevels[l.Level] && l.Level != "" {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}
	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:      BackendCSV,
			DataDir:      "data",
			DatabasePath: "inventory.db",
		},
		Inventory: InventoryConfig{
			DefaultCategory: "General",
			BootstrapAdmin:  true,
		},
		Report: ReportConfig{
			PeriodDays: 7,
		},
		Display: DisplayConfig{
			ColorScheme: ColorSchemeGreen,
			DateFormat:  "2006-01-02",
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			File:  "logs/hpmtrack.log",
		},
	}
}
