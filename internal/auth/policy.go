package auth

import "github.com/davidgev86/HealthPackTracker/internal/models"

// Action names a permissioned operation. Every mutating path through the
// application maps to exactly one Action and asks May before proceeding.
type Action string

const (
	ActionView             Action = "view"
	ActionRecordCount      Action = "record_count"
	ActionLogWaste         Action = "log_waste"
	ActionEditItem         Action = "edit_item"
	ActionDeleteItem       Action = "delete_item"
	ActionImport           Action = "import"
	ActionExport           Action = "export"
	ActionGenerateReport   Action = "generate_report"
	ActionDeleteWaste      Action = "delete_waste"
	ActionManageUsers      Action = "manage_users"
	ActionManageVendors    Action = "manage_vendors"
	ActionManageCategories Action = "manage_categories"
)

// May reports whether a role is allowed to perform action on records in
// the given scope.
//
// Staff can view everything, record counts, and log waste, but only
// against general-scope records. Managers additionally edit items, import
// and export data, and generate reports, in any scope. Admins can do
// everything, including user, vendor, and category management and
// deleting records outright.
func May(role models.Role, action Action, scope models.Scope) bool {
	switch action {
	case ActionView:
		return true
	case ActionRecordCount, ActionLogWaste:
		if role == models.RoleStaff {
			return scope == models.ScopeGeneral
		}
		return role.AtLeast(models.RoleManager)
	case ActionEditItem, ActionImport, ActionExport, ActionGenerateReport:
		return role.AtLeast(models.RoleManager)
	case ActionDeleteItem, ActionDeleteWaste, ActionManageUsers, ActionManageVendors, ActionManageCategories:
		return role == models.RoleAdmin
	default:
		return false
	}
}
