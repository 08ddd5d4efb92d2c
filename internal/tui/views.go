package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davidgev86/HealthPackTracker/internal/util"
)

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n\n")

	switch {
	case a.screen == ScreenLogin:
		b.WriteString(a.renderLogin())
	case a.form != formNone:
		b.WriteString(a.renderForm())
	case a.screen == ScreenReport:
		b.WriteString(a.renderReport())
	default:
		b.WriteString(a.renderTableScreen())
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) renderHeader() string {
	title := "HPM INVENTORY TRACKER"
	right := ""
	if a.user != nil {
		right = fmt.Sprintf("%s (%s)", a.user.Username, a.user.Role)
	}
	pad := a.width - len(title) - len(right) - 4
	if pad < 1 {
		pad = 1
	}
	return a.theme.Header.Render(title + strings.Repeat(" ", pad) + right)
}

func (a *App) renderLogin() string {
	var b strings.Builder
	b.WriteString(a.theme.Title.Render("=== SIGN IN ==="))
	b.WriteString("\n\n")
	b.WriteString(a.usernameInput.Render())
	b.WriteString("\n")
	b.WriteString(a.passwordInput.Render())
	b.WriteString("\n\n")
	if a.errMsg != "" {
		b.WriteString(a.theme.Error.Render(a.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(a.theme.Muted.Render("Enter:Submit  Tab:Next field  Esc:Quit"))
	return b.String()
}

func (a *App) renderForm() string {
	var b strings.Builder
	switch a.form {
	case formCount:
		b.WriteString(a.theme.Title.Render("=== UPDATE COUNT: " + a.formItem + " ==="))
		b.WriteString("\n\n")
		b.WriteString(a.quantityInput.Render())
	case formWaste:
		b.WriteString(a.theme.Title.Render("=== LOG WASTE: " + a.formItem + " ==="))
		b.WriteString("\n\n")
		b.WriteString(a.quantityInput.Render())
		b.WriteString("\n")
		b.WriteString(a.reasonInput.Render())
	}
	b.WriteString("\n\n")
	if a.errMsg != "" {
		b.WriteString(a.theme.Error.Render(a.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(a.theme.Muted.Render("Enter:Save  Esc:Cancel"))
	return b.String()
}

func (a *App) renderTableScreen() string {
	titles := map[Screen]string{
		ScreenInventory: "=== INVENTORY ===",
		ScreenLowStock:  "=== LOW STOCK ===",
		ScreenWaste:     "=== WASTE LOG ===",
		ScreenShopping:  "=== SHOPPING LIST ===",
	}
	empty := map[Screen]string{
		ScreenInventory: "No items on file.",
		ScreenLowStock:  "Nothing below par.",
		ScreenWaste:     "No waste logged.",
		ScreenShopping:  "Nothing to reorder.",
	}

	var b strings.Builder
	b.WriteString(a.theme.Title.Render(titles[a.screen]))
	b.WriteString("\n\n")
	if a.errMsg != "" {
		b.WriteString(a.theme.Error.Render("Error: " + a.errMsg))
		b.WriteString("\n\n")
	}
	table := a.activeTable()
	if table.Empty() {
		b.WriteString(a.theme.Muted.Render(empty[a.screen]))
		b.WriteString("\n")
	} else {
		table.Focus(true)
		b.WriteString(table.Render())
	}
	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(a.theme.Primary.Render(a.status))
	}
	return b.String()
}

func (a *App) renderReport() string {
	var b strings.Builder
	b.WriteString(a.theme.Title.Render("=== WEEKLY REPORT ==="))
	b.WriteString("\n\n")
	if a.errMsg != "" {
		b.WriteString(a.theme.Error.Render("Error: " + a.errMsg))
		return b.String()
	}
	if a.report == nil {
		b.WriteString(a.theme.Muted.Render("No report available."))
		return b.String()
	}

	r := a.report
	label := a.theme.Label
	value := a.theme.Value

	b.WriteString(label.Render("Period:      ") + value.Render(
		util.FormatDate(r.PeriodStart)+" to "+util.FormatDate(r.PeriodEnd)) + "\n")
	b.WriteString(label.Render("Items:       ") + value.Render(fmt.Sprintf("%d", r.TotalItems)) + "\n")
	b.WriteString(label.Render("Valuation:   ") + value.Render(fmt.Sprintf("$%.2f", r.TotalValuation)) + "\n")
	b.WriteString(label.Render("Low stock:   ") + value.Render(fmt.Sprintf("%d", r.LowStockCount)) + "\n")
	b.WriteString(label.Render("Waste value: ") + value.Render(fmt.Sprintf("$%.2f", r.TotalWaste)) + "\n\n")

	if len(r.ByCategory) > 0 {
		b.WriteString(a.theme.Primary.Render("BY CATEGORY"))
		b.WriteString("\n")
		for _, name := range sortedKeys(r.ByCategory) {
			agg := r.ByCategory[name]
			b.WriteString(fmt.Sprintf("  %-20s %8.1f  $%.2f\n", name, agg.Quantity, agg.Value))
		}
		b.WriteString("\n")
	}
	if len(r.ByReason) > 0 {
		b.WriteString(a.theme.Primary.Render("WASTE BY REASON"))
		b.WriteString("\n")
		for _, reason := range sortedKeys(r.ByReason) {
			b.WriteString(fmt.Sprintf("  %-20s $%.2f\n", reason, r.ByReason[reason]))
		}
	}
	return b.String()
}

func (a *App) renderFooter() string {
	if a.screen == ScreenLogin {
		return a.theme.Footer.Render("HPM Inventory " + Version)
	}
	help := "1:Inventory  2:Low  3:Waste  4:Shopping  5:Report"
	if a.screen == ScreenInventory && a.form == formNone {
		help += "  c:Count  w:Waste"
	}
	help += "  q:Quit"
	return a.theme.Footer.Render(help)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
