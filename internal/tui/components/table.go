// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
	Align lipgloss.Position
}

// Table is a scrollable table with a selectable row. Individual rows can
// carry an override style, used for low-stock highlighting.
type Table struct {
	columns     []Column
	rows        [][]string
	rowStyles   map[int]lipgloss.Style
	selected    int
	offset      int
	visibleRows int
	focused     bool

	headerStyle   lipgloss.Style
	rowStyle      lipgloss.Style
	rowAltStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	borderStyle   lipgloss.Style
}

// NewTable creates a table with the given columns.
func NewTable(columns []Column) *Table {
	return &Table{
		columns:       columns,
		rowStyles:     map[int]lipgloss.Style{},
		visibleRows:   15,
		headerStyle:   lipgloss.NewStyle().Bold(true),
		rowStyle:      lipgloss.NewStyle(),
		rowAltStyle:   lipgloss.NewStyle(),
		selectedStyle: lipgloss.NewStyle().Reverse(true),
		borderStyle:   lipgloss.NewStyle(),
	}
}

// SetRows replaces the table data and clears row style overrides. The
// selection is clamped to the new row count.
func (t *Table) SetRows(rows [][]string) {
	t.rows = rows
	t.rowStyles = map[int]lipgloss.Style{}
	if t.selected >= len(rows) {
		t.selected = len(rows) - 1
	}
	if t.selected < 0 {
		t.selected = 0
	}
	if t.offset > t.selected {
		t.offset = t.selected
	}
}

// SetRowStyle overrides the style for one row.
func (t *Table) SetRowStyle(row int, style lipgloss.Style) {
	t.rowStyles[row] = style
}

// SetVisibleRows sets the number of rows shown at once.
func (t *Table) SetVisibleRows(n int) {
	if n > 0 {
		t.visibleRows = n
	}
}

// SetStyles sets the table styles.
func (t *Table) SetStyles(header, row, rowAlt, selected, border lipgloss.Style) {
	t.headerStyle = header
	t.rowStyle = row
	t.rowAltStyle = rowAlt
	t.selectedStyle = selected
	t.borderStyle = border
}

// Focus sets the table focus state. Only a focused table highlights its
// selected row.
func (t *Table) Focus(focused bool) {
	t.focused = focused
}

// Selected returns the index of the selected row.
func (t *Table) Selected() int {
	return t.selected
}

// SelectedRow returns the selected row data, or nil when empty.
func (t *Table) SelectedRow() []string {
	if t.selected >= 0 && t.selected < len(t.rows) {
		return t.rows[t.selected]
	}
	return nil
}

// MoveUp moves the selection up one row.
func (t *Table) MoveUp() {
	if t.selected > 0 {
		t.selected--
		if t.selected < t.offset {
			t.offset = t.selected
		}
	}
}

// MoveDown moves the selection down one row.
func (t *Table) MoveDown() {
	if t.selected < len(t.rows)-1 {
		t.selected++
		if t.selected >= t.offset+t.visibleRows {
			t.offset = t.selected - t.visibleRows + 1
		}
	}
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Render renders the table.
func (t *Table) Render() string {
	var b strings.Builder

	totalWidth := 0
	for _, col := range t.columns {
		totalWidth += col.Width + 3
	}

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Title
	}
	b.WriteString(t.renderRow(headers, t.headerStyle))
	b.WriteString("\n")
	b.WriteString(t.borderStyle.Render(strings.Repeat("-", totalWidth)))
	b.WriteString("\n")

	end := t.offset + t.visibleRows
	if end > len(t.rows) {
		end = len(t.rows)
	}
	for i := t.offset; i < end; i++ {
		style := t.rowStyle
		if (i-t.offset)%2 == 1 {
			style = t.rowAltStyle
		}
		if override, ok := t.rowStyles[i]; ok {
			style = override
		}
		if i == t.selected && t.focused {
			style = t.selectedStyle
		}
		b.WriteString(t.renderRow(t.rows[i], style))
		b.WriteString("\n")
	}

	if len(t.rows) > t.visibleRows {
		b.WriteString(t.borderStyle.Render(
			fmt.Sprintf("%d-%d of %d", t.offset+1, end, len(t.rows))))
	}

	return b.String()
}

func (t *Table) renderRow(cells []string, style lipgloss.Style) string {
	parts := make([]string, 0, len(t.columns))
	for i, col := range t.columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if len(cell) > col.Width {
			cell = cell[:col.Width-1] + "…"
		}
		switch col.Align {
		case lipgloss.Right:
			cell = fmt.Sprintf("%*s", col.Width, cell)
		default:
			cell = fmt.Sprintf("%-*s", col.Width, cell)
		}
		parts = append(parts, style.Render(cell))
	}
	return " " + strings.Join(parts, " | ") + " "
}
