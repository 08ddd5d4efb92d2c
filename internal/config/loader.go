package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultConfigFileName is the standard configuration file name.
	DefaultConfigFileName = "hpmtrack.toml"

	// XDGConfigSubdir is the subdirectory under XDG_CONFIG_HOME for hpmtrack.
	XDGConfigSubdir = "hpmtrack"
)

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading config from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load attempts to load configuration from multiple sources in order of
// precedence:
// 1. Explicit path (if provided)
// 2. XDG config path (~/.config/hpmtrack/hpmtrack.toml)
// 3. Current working directory (./hpmtrack.toml)
// 4. Default configuration (if createDefault is true)
//
// Returns the loaded configuration and the path it was loaded from.
func Load(explicitPath string, createDefault bool) (*Config, string, error) {
	if explicitPath != "" {
		cfg, err := loadFromFile(explicitPath)
		if err != nil {
			return nil, "", &LoadError{Path: explicitPath, Err: err}
		}
		return cfg, explicitPath, nil
	}

	xdgPath := xdgConfigPath()
	if xdgPath != "" && fileExists(xdgPath) {
		cfg, err := loadFromFile(xdgPath)
		if err != nil {
			return nil, "", &LoadError{Path: xdgPath, Err: err}
		}
		return cfg, xdgPath, nil
	}

	cwdPath := filepath.Join(".", DefaultConfigFileName)
	if fileExists(cwdPath) {
		cfg, err := loadFromFile(cwdPath)
		if err != nil {
			return nil, "", &LoadError{Path: cwdPath, Err: err}
		}
		return cfg, cwdPath, nil
	}

	if !createDefault {
		return nil, "", errors.New("no configuration file found; searched: " + xdgPath + ", " + cwdPath)
	}

	cfg := Default()

	defaultPath := cwdPath
	if xdgPath != "" {
		if err := os.MkdirAll(filepath.Dir(xdgPath), 0750); err == nil {
			defaultPath = xdgPath
		}
	}

	if err := Save(cfg, defaultPath); err != nil {
		// Continue with in-memory default if we can't write
		return cfg, "", nil
	}
	return cfg, defaultPath, nil
}

// loadFromFile reads and parses a TOML configuration file.
func loadFromFile(path string) (*Config, error) {
	// Start with defaults so missing values get sensible defaults
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Save writes a configuration to a TOML file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	header := `# HealthPack inventory tracker configuration
#
# This file was auto-generated. Edit as needed.

`
	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}
	return nil
}

// xdgConfigPath returns the XDG-compliant config file path, or empty when
// neither XDG_CONFIG_HOME nor HOME is available.
func xdgConfigPath() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig != "" {
		return filepath.Join(xdgConfig, XDGConfigSubdir, DefaultConfigFileName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", XDGConfigSubdir, DefaultConfigFileName)
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// EnsureDataDir resolves and creates the storage location for the active
// backend, returning the path the store should open.
func EnsureDataDir(cfg *Config) (string, error) {
	var target string
	switch cfg.Storage.Backend {
	case BackendSQLite:
		target = cfg.Storage.DatabasePath
	default:
		target = cfg.Storage.DataDir
	}

	if filepath.IsAbs(target) {
		dir := target
		if cfg.Storage.Backend == BackendSQLite {
			dir = filepath.Dir(target)
		}
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("creating storage directory: %w", err)
		}
		return target, nil
	}

	// Relative paths live under the XDG data directory when available.
	xdgData := os.Getenv("XDG_DATA_HOME")
	if xdgData == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			xdgData = filepath.Join(home, ".local", "share")
		}
	}

	if xdgData != "" {
		dataDir := filepath.Join(xdgData, XDGConfigSubdir)
		if err := os.MkdirAll(dataDir, 0750); err != nil {
			// Fall back to current directory
			return target, nil
		}
		return filepath.Join(dataDir, target), nil
	}
	return target, nil
}

// EnsureLogDir creates the log directory if needed and returns the log
// file path, or empty when file logging is disabled.
func EnsureLogDir(cfg *Config) (string, error) {
	logPath := cfg.Logging.File
	if logPath == "" {
		return "", nil
	}

	dir := filepath.Dir(logPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("creating log directory: %w", err)
		}
	}
	return logPath, nil
}
