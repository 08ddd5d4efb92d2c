// hpmtrack: perishable-goods inventory tracker for commercial kitchens.
//
// Runs a terminal interface over a flat-file or SQLite record store, with
// batch import, waste logging, and weekly report generation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidgev86/HealthPackTracker/internal/config"
	"github.com/davidgev86/HealthPackTracker/internal/engine"
	"github.com/davidgev86/HealthPackTracker/internal/export"
	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
	"github.com/davidgev86/HealthPackTracker/internal/store/csvstore"
	"github.com/davidgev86/HealthPackTracker/internal/store/sqlitestore"
	"github.com/davidgev86/HealthPackTracker/internal/tui"
	"github.com/davidgev86/HealthPackTracker/internal/util"
)

// Build information (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		importPath  = flag.String("import", "", "Import an inventory file (.csv or .xlsx) and exit")
		exportPath  = flag.String("export", "", "Export the inventory snapshot (.csv or .xlsx) and exit")
		reportOnly  = flag.Bool("report", false, "Generate the weekly report and exit")
		showVersion = flag.Bool("version", false, "Show version and exit")
		debugMode   = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("hpmtrack version %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	if err := run(context.Background(), *configPath, *importPath, *exportPath, *reportOnly, *debugMode); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, importPath, exportPath string, reportOnly, debugMode bool) error {
	cfg, cfgPath, err := config.Load(configPath, true)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case config.LogLevelDebug:
			logLevel = slog.LevelDebug
		case config.LogLevelWarn:
			logLevel = slog.LevelWarn
		case config.LogLevelError:
			logLevel = slog.LevelError
		}
	}

	var logHandler slog.Handler
	logPath, err := config.EnsureLogDir(cfg)
	if err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logFile.Close()
		logHandler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: logLevel})
	} else {
		logHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	slog.Info("hpmtrack starting",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cfgPath,
	)

	storagePath, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("ensuring data directory: %w", err)
	}

	st, err := openStore(cfg, storagePath)
	if err != nil {
		return fmt.Errorf("opening %s store at %s: %w", cfg.Storage.Backend, storagePath, err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}()

	eng := engine.New(st, engine.Config{
		DefaultCategory:  cfg.Inventory.DefaultCategory,
		ReportPeriodDays: cfg.Report.PeriodDays,
		Logger:           logger,
	})

	if err := eng.Bootstrap(ctx, cfg.Inventory.BootstrapAdmin); err != nil {
		return fmt.Errorf("bootstrapping store: %w", err)
	}

	// One-shot command modes run as the local operator, not a signed-in
	// account.
	operator := engine.Actor{Username: localUsername(), Role: models.RoleAdmin}

	if importPath != "" {
		return runImport(ctx, eng, operator, importPath)
	}
	if exportPath != "" {
		return runExport(ctx, eng, exportPath)
	}
	if reportOnly {
		report, generated, err := eng.MaybeGenerate(ctx)
		if err != nil {
			return fmt.Errorf("generating report: %w", err)
		}
		fmt.Printf("Report %s to %s: %d items, valuation $%.2f, waste $%.2f (generated=%v)\n",
			util.FormatDate(report.PeriodStart), util.FormatDate(report.PeriodEnd),
			report.TotalItems, report.TotalValuation, report.TotalWaste, generated)
		return nil
	}

	tui.Version = Version
	tui.BuildTime = BuildTime

	slog.Info("starting TUI", "backend", cfg.Storage.Backend)
	if err := tui.Run(eng, st, cfg); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	slog.Info("hpmtrack shutdown complete")
	return nil
}

func openStore(cfg *config.Config, storagePath string) (store.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return sqlitestore.Open(storagePath)
	default:
		return csvstore.Open(storagePath)
	}
}

func runImport(ctx context.Context, eng *engine.Engine, actor engine.Actor, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer file.Close()

	var batch *engine.Batch
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		batch, err = export.ReadXLSXBatch(file)
	} else {
		batch, err = engine.ParseBatch(file)
	}
	if err != nil {
		return err
	}

	report, err := eng.Reconcile(ctx, actor, batch)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}

	fmt.Printf("Imported %s: %d accepted (%d new, %d updated), %d rejected\n",
		path, report.Accepted, report.Inserted, report.Updated, len(report.Rejected))
	for _, rejection := range report.Rejected {
		fmt.Printf("  row %d: %s\n", rejection.Row, rejection.Reason)
	}
	for _, name := range report.UnitChanges {
		fmt.Printf("  warning: unit of measure changed for %s\n", name)
	}
	return nil
}

func runExport(ctx context.Context, eng *engine.Engine, path string) error {
	items, err := eng.Items(ctx)
	if err != nil {
		return fmt.Errorf("loading inventory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		err = export.WriteXLSX(file, items)
	} else {
		err = export.WriteCSV(file, items)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d items to %s\n", len(items), path)
	return nil
}

func localUsername() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "operator"
}
