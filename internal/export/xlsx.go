package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/davidgev86/HealthPackTracker/internal/engine"
	"github.com/davidgev86/HealthPackTracker/internal/models"
)

// WriteXLSX writes items as a spreadsheet snapshot with the same column
// layout as the CSV export.
func WriteXLSX(w io.Writer, items []models.InventoryItem) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := make([]interface{}, len(snapshotHeader))
	for i, col := range snapshotHeader {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, item := range items {
		cells := itemCells(item)
		row := make([]interface{}, len(cells))
		for j, cell := range cells {
			row[j] = cell
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row for %q: %w", item.Name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing spreadsheet: %w", err)
	}
	return nil
}

// ReadXLSXBatch reads the active sheet of a spreadsheet into an import
// batch. The first row is taken as the header.
func ReadXLSXBatch(r io.Reader) (*engine.Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return &engine.Batch{Header: header, Rows: rows[1:]}, nil
}
