package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davidgev86/HealthPackTracker/internal/auth"
	"github.com/davidgev86/HealthPackTracker/internal/config"
	"github.com/davidgev86/HealthPackTracker/internal/engine"
	"github.com/davidgev86/HealthPackTracker/internal/models"
	"github.com/davidgev86/HealthPackTracker/internal/store"
	"github.com/davidgev86/HealthPackTracker/internal/tui/components"
	"github.com/davidgev86/HealthPackTracker/internal/util"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Screen identifies the active view.
type Screen string

const (
	ScreenLogin     Screen = "login"
	ScreenInventory Screen = "inventory"
	ScreenLowStock  Screen = "low_stock"
	ScreenWaste     Screen = "waste"
	ScreenShopping  Screen = "shopping"
	ScreenReport    Screen = "report"
)

// formMode identifies an input form layered over the current screen.
type formMode int

const (
	formNone formMode = iota
	formCount
	formWaste
)

// App is the main Bubble Tea application model.
type App struct {
	engine *engine.Engine
	store  store.Store
	config *config.Config

	theme *Theme
	keys  KeyMap

	width  int
	height int
	ready  bool

	screen Screen
	user   *models.User
	status string
	errMsg string

	// Login form
	usernameInput *components.Input
	passwordInput *components.Input

	// Count/waste forms over the inventory screen
	form          formMode
	formItem      string
	quantityInput *components.Input
	reasonInput   *components.Input

	// Data views
	itemsTable *components.Table
	lowTable   *components.Table
	wasteTable *components.Table
	shopTable  *components.Table
	items      []models.InventoryItem
	report     *models.WeeklyReport
}

// New creates the application model.
func New(eng *engine.Engine, st store.Store, cfg *config.Config) *App {
	theme := NewTheme(cfg.Display.ColorScheme)

	itemsTable := components.NewTable([]components.Column{
		{Title: "Name", Width: 24},
		{Title: "Category", Width: 16},
		{Title: "Qty", Width: 8, Align: lipgloss.Right},
		{Title: "Par", Width: 8, Align: lipgloss.Right},
		{Title: "Unit", Width: 8},
		{Title: "Cost", Width: 8, Align: lipgloss.Right},
		{Title: "Vendor", Width: 16},
	})
	itemsTable.Focus(true)

	lowTable := components.NewTable([]components.Column{
		{Title: "Category", Width: 16},
		{Title: "Name", Width: 24},
		{Title: "Qty", Width: 8, Align: lipgloss.Right},
		{Title: "Par", Width: 8, Align: lipgloss.Right},
		{Title: "Need", Width: 8, Align: lipgloss.Right},
	})

	wasteTable := components.NewTable([]components.Column{
		{Title: "Logged", Width: 16},
		{Title: "Item", Width: 24},
		{Title: "Qty", Width: 8, Align: lipgloss.Right},
		{Title: "Reason", Width: 16},
		{Title: "Value", Width: 8, Align: lipgloss.Right},
		{Title: "By", Width: 10},
	})

	shopTable := components.NewTable([]components.Column{
		{Title: "Vendor", Width: 20},
		{Title: "Item", Width: 24},
		{Title: "Need", Width: 8, Align: lipgloss.Right},
		{Title: "Unit", Width: 8},
	})

	for _, table := range []*components.Table{itemsTable, lowTable, wasteTable, shopTable} {
		table.SetStyles(theme.TableHeader, theme.TableRow, theme.TableRowAlt, theme.Selected, theme.Muted)
	}

	return &App{
		engine:        eng,
		store:         st,
		config:        cfg,
		theme:         theme,
		keys:          DefaultKeyMap(),
		screen:        ScreenLogin,
		usernameInput: components.NewInput("Username").SetRequired(true),
		passwordInput: components.NewInput("Password").SetRequired(true).SetMasked(true),
		itemsTable:    itemsTable,
		lowTable:      lowTable,
		wasteTable:    wasteTable,
		shopTable:     shopTable,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.usernameInput.Focus(true)
	return tea.EnterAltScreen
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		visible := a.height - 10
		for _, table := range []*components.Table{a.itemsTable, a.lowTable, a.wasteTable, a.shopTable} {
			table.SetVisibleRows(visible)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.screen == ScreenLogin {
		return a.handleLoginKey(key)
	}
	if a.form != formNone {
		return a.handleFormKey(key)
	}

	switch {
	case a.keys.Quit.Matches(key):
		return a, tea.Quit
	case a.keys.Inventory.Matches(key):
		a.switchScreen(ScreenInventory)
	case a.keys.LowStock.Matches(key):
		a.switchScreen(ScreenLowStock)
	case a.keys.WasteLog.Matches(key):
		a.switchScreen(ScreenWaste)
	case a.keys.ShoppingList.Matches(key):
		a.switchScreen(ScreenShopping)
	case a.keys.Report.Matches(key):
		a.switchScreen(ScreenReport)
	case a.keys.Up.Matches(key):
		a.activeTable().MoveUp()
	case a.keys.Down.Matches(key):
		a.activeTable().MoveDown()
	case a.keys.UpdateCount.Matches(key) && a.screen == ScreenInventory:
		a.openCountForm()
	case a.keys.LogWaste.Matches(key) && a.screen == ScreenInventory:
		a.openWasteForm()
	}
	return a, nil
}

func (a *App) handleLoginKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "tab", "shift+tab", "down", "up":
		focusPassword := a.usernameInput.IsFocused()
		a.usernameInput.Focus(!focusPassword)
		a.passwordInput.Focus(focusPassword)
	case "enter":
		if a.usernameInput.IsFocused() {
			a.usernameInput.Focus(false)
			a.passwordInput.Focus(true)
			return a, nil
		}
		a.submitLogin()
	case "esc":
		return a, tea.Quit
	default:
		a.usernameInput.HandleKey(key)
		a.passwordInput.HandleKey(key)
	}
	return a, nil
}

func (a *App) submitLogin() {
	if !a.usernameInput.Validate() || !a.passwordInput.Validate() {
		return
	}
	user, err := auth.Authenticate(context.Background(), a.store,
		a.usernameInput.Value(), a.passwordInput.Value())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			a.errMsg = "Invalid username or password"
		} else {
			a.errMsg = err.Error()
		}
		a.passwordInput.SetValue("")
		return
	}
	a.user = user
	a.errMsg = ""
	a.passwordInput.SetValue("")
	a.switchScreen(ScreenInventory)
}

func (a *App) handleFormKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		a.closeForm()
	case "tab", "down", "up":
		if a.form == formWaste {
			focusReason := a.quantityInput.IsFocused()
			a.quantityInput.Focus(!focusReason)
			a.reasonInput.Focus(focusReason)
		}
	case "enter":
		if a.form == formWaste && a.quantityInput.IsFocused() {
			a.quantityInput.Focus(false)
			a.reasonInput.Focus(true)
			return a, nil
		}
		a.submitForm()
	default:
		if a.quantityInput != nil {
			a.quantityInput.HandleKey(key)
		}
		if a.reasonInput != nil {
			a.reasonInput.HandleKey(key)
		}
	}
	return a, nil
}

func (a *App) openCountForm() {
	item := a.selectedItem()
	if item == nil {
		return
	}
	if !auth.May(a.user.Role, auth.ActionRecordCount, item.EffectiveScope()) {
		a.errMsg = "Not permitted for your role"
		return
	}
	a.form = formCount
	a.formItem = item.Name
	a.quantityInput = components.NewInput("New count").SetRequired(true)
	a.quantityInput.Focus(true)
	a.errMsg = ""
}

func (a *App) openWasteForm() {
	item := a.selectedItem()
	if item == nil {
		return
	}
	if !auth.May(a.user.Role, auth.ActionLogWaste, item.EffectiveScope()) {
		a.errMsg = "Not permitted for your role"
		return
	}
	a.form = formWaste
	a.formItem = item.Name
	a.quantityInput = components.NewInput("Quantity").SetRequired(true)
	a.reasonInput = components.NewInput("Reason").SetRequired(true).SetPlaceholder("spoiled, expired, ...")
	a.quantityInput.Focus(true)
	a.errMsg = ""
}

func (a *App) closeForm() {
	a.form = formNone
	a.formItem = ""
	a.quantityInput = nil
	a.reasonInput = nil
}

func (a *App) submitForm() {
	ctx := context.Background()
	actor := engine.Actor{Username: a.user.Username, Role: a.user.Role}

	switch a.form {
	case formCount:
		if !a.quantityInput.Validate() {
			return
		}
		quantity, err := parseQuantity(a.quantityInput.Value())
		if err != nil {
			a.quantityInput.SetError("Not a number")
			return
		}
		if _, err := a.engine.UpdateCount(ctx, actor, a.formItem, quantity); err != nil {
			a.errMsg = err.Error()
			return
		}
		a.status = fmt.Sprintf("Count updated for %s", a.formItem)

	case formWaste:
		if !a.quantityInput.Validate() || !a.reasonInput.Validate() {
			return
		}
		quantity, err := parseQuantity(a.quantityInput.Value())
		if err != nil {
			a.quantityInput.SetError("Not a number")
			return
		}
		if _, err := a.engine.LogWaste(ctx, actor, a.formItem, quantity, a.reasonInput.Value()); err != nil {
			a.errMsg = err.Error()
			return
		}
		a.status = fmt.Sprintf("Waste logged for %s", a.formItem)
	}

	a.closeForm()
	a.errMsg = ""
	a.loadScreen()
}

func (a *App) switchScreen(screen Screen) {
	a.screen = screen
	a.status = ""
	a.errMsg = ""
	a.loadScreen()
}

// loadScreen refreshes the data behind the active screen.
func (a *App) loadScreen() {
	ctx := context.Background()
	switch a.screen {
	case ScreenInventory:
		items, err := a.engine.Items(ctx)
		if err != nil {
			a.errMsg = err.Error()
			return
		}
		a.items = items
		rows := make([][]string, len(items))
		for i, item := range items {
			rows[i] = []string{
				item.Name,
				item.Category,
				formatQty(item.Quantity),
				formatQty(item.ParLevel),
				item.Unit,
				fmt.Sprintf("%.2f", item.UnitCost),
				item.Vendor,
			}
		}
		a.itemsTable.SetRows(rows)
		for i, item := range items {
			if item.IsLowStock() {
				a.itemsTable.SetRowStyle(i, a.theme.Warning)
			}
		}

	case ScreenLowStock:
		low, err := a.engine.LowStock(ctx, models.ScopeGeneral)
		if err != nil {
			a.errMsg = err.Error()
			return
		}
		rows := make([][]string, len(low))
		for i, item := range low {
			rows[i] = []string{
				item.Category,
				item.Name,
				formatQty(item.Quantity),
				formatQty(item.ParLevel),
				formatQty(item.QuantityNeeded()),
			}
		}
		a.lowTable.SetRows(rows)

	case ScreenWaste:
		entries, err := a.engine.WasteEntries(ctx)
		if err != nil {
			a.errMsg = err.Error()
			return
		}
		rows := make([][]string, len(entries))
		for i, entry := range entries {
			rows[i] = []string{
				util.FormatDateTime(entry.LoggedAt),
				entry.ItemName,
				formatQty(entry.Quantity),
				entry.Reason,
				fmt.Sprintf("%.2f", entry.WasteValue()),
				entry.LoggedBy,
			}
		}
		a.wasteTable.SetRows(rows)

	case ScreenShopping:
		list, err := a.engine.ShoppingList(ctx, models.ScopeGeneral)
		if err != nil {
			a.errMsg = err.Error()
			return
		}
		rows := make([][]string, len(list))
		for i, entry := range list {
			rows[i] = []string{
				entry.Vendor,
				entry.Name,
				formatQty(entry.Needed),
				entry.Unit,
			}
		}
		a.shopTable.SetRows(rows)

	case ScreenReport:
		// Generating persists a snapshot, so the screen only triggers it
		// for roles allowed to. Everyone else sees the stored report.
		if auth.May(a.user.Role, auth.ActionGenerateReport, models.ScopeGeneral) {
			report, _, err := a.engine.MaybeGenerate(ctx)
			if err != nil {
				a.errMsg = err.Error()
				return
			}
			a.report = report
			return
		}
		report, err := a.store.Report(ctx)
		if err != nil {
			a.report = nil
			if !errors.Is(err, store.ErrNotFound) {
				a.errMsg = err.Error()
			}
			return
		}
		a.report = report
	}
}

func (a *App) activeTable() *components.Table {
	switch a.screen {
	case ScreenLowStock:
		return a.lowTable
	case ScreenWaste:
		return a.wasteTable
	case ScreenShopping:
		return a.shopTable
	default:
		return a.itemsTable
	}
}

func (a *App) selectedItem() *models.InventoryItem {
	idx := a.itemsTable.Selected()
	if idx >= 0 && idx < len(a.items) {
		return &a.items[idx]
	}
	return nil
}

func parseQuantity(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("quantity %q is not a finite number", raw)
	}
	return v, nil
}

func formatQty(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Run starts the TUI and blocks until it exits.
func Run(eng *engine.Engine, st store.Store, cfg *config.Config) error {
	program := tea.NewProgram(New(eng, st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
