// Package tui provides the terminal user interface for the inventory
// tracker.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/davidgev86/HealthPackTracker/internal/config"
)

// Theme contains the style definitions for the TUI.
type Theme struct {
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	AccentColor    lipgloss.Color
	MutedColor     lipgloss.Color
	ErrorColor     lipgloss.Color
	WarningColor   lipgloss.Color

	Primary lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Selected lipgloss.Style

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableRowAlt lipgloss.Style

	MenuItem         lipgloss.Style
	MenuItemSelected lipgloss.Style

	FormLabel lipgloss.Style
	FormError lipgloss.Style
}

// NewTheme creates a theme for the configured color scheme.
func NewTheme(scheme config.ColorScheme) *Theme {
	switch scheme {
	case config.ColorSchemeAmber:
		return buildTheme(
			lipgloss.Color("#FFAA00"),
			lipgloss.Color("#AA7700"),
			lipgloss.Color("#FFCC66"),
			lipgloss.Color("#664400"),
		)
	case config.ColorSchemeWhite:
		return buildTheme(
			lipgloss.Color("#FFFFFF"),
			lipgloss.Color("#AAAAAA"),
			lipgloss.Color("#FFFFFF"),
			lipgloss.Color("#666666"),
		)
	default:
		return buildTheme(
			lipgloss.Color("#00FF00"),
			lipgloss.Color("#00AA00"),
			lipgloss.Color("#66FF66"),
			lipgloss.Color("#006600"),
		)
	}
}

func buildTheme(primary, secondary, accent, muted lipgloss.Color) *Theme {
	background := lipgloss.Color("#000000")
	errorColor := lipgloss.Color("#FF4444")
	warningColor := lipgloss.Color("#FFAA00")

	t := &Theme{
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		AccentColor:    accent,
		MutedColor:     muted,
		ErrorColor:     errorColor,
		WarningColor:   warningColor,
	}

	t.Primary = lipgloss.NewStyle().Foreground(primary)
	t.Muted = lipgloss.NewStyle().Foreground(muted)
	t.Error = lipgloss.NewStyle().Foreground(errorColor)
	t.Warning = lipgloss.NewStyle().Foreground(warningColor)

	t.Header = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true).
		Padding(0, 1)

	t.Footer = lipgloss.NewStyle().
		Foreground(secondary).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Padding(0, 1)

	t.Label = lipgloss.NewStyle().Foreground(secondary)
	t.Value = lipgloss.NewStyle().Foreground(primary)

	t.Selected = lipgloss.NewStyle().
		Foreground(background).
		Background(primary).
		Bold(true)

	t.TableHeader = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Padding(0, 1)

	t.TableRow = lipgloss.NewStyle().
		Foreground(primary).
		Padding(0, 1)

	t.TableRowAlt = lipgloss.NewStyle().
		Foreground(secondary).
		Padding(0, 1)

	t.MenuItem = lipgloss.NewStyle().
		Foreground(primary).
		Padding(0, 2)

	t.MenuItemSelected = lipgloss.NewStyle().
		Foreground(background).
		Background(primary).
		Bold(true).
		Padding(0, 2)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(secondary).
		Width(14)

	t.FormError = lipgloss.NewStyle().Foreground(errorColor)

	return t
}
