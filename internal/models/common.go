package models

// Scope partitions inventory and waste data between the general kitchen
// stock and the HPM program's dedicated items. The two scopes never mix
// in a single aggregate or report.
type Scope string

const (
	ScopeGeneral Scope = "general"
	ScopeHPM     Scope = "hpm"
)

// Valid returns true if the scope is a valid value.
func (s Scope) Valid() bool {
	return s == ScopeGeneral || s == ScopeHPM
}

// String returns the display string for the scope.
func (s Scope) String() string {
	switch s {
	case ScopeGeneral:
		return "General"
	case ScopeHPM:
		return "HPM"
	default:
		return "Unknown"
	}
}

// Units is the allow-list of measurement units accepted on inventory items
// and import rows.
var Units = []string{
	"pieces", "kg", "lbs", "oz", "liters", "gallons", "cups", "boxes", "bags", "cans",
}

// ValidUnit reports whether u is on the unit allow-list.
func ValidUnit(u string) bool {
	for _, unit := range Units {
		if u == unit {
			return true
		}
	}
	return false
}

// DefaultCategory is assigned to items imported without a category.
const DefaultCategory = "General"

// DefaultCategories is the curated starting set of item categories.
// Admins may extend it; validation accepts the union of this list and
// the stored categories.
var DefaultCategories = []string{
	"General",
	"Produce",
	"Meat & Poultry",
	"Dairy",
	"Pantry",
	"Beverages",
	"Frozen",
	"Cleaning Supplies",
	"Frozen Bulk Items",
	"Frozen Beef Meals",
	"Frozen Chicken Meals",
	"Frozen Turkey Meals",
	"Frozen Seafood",
}

// DefaultVendors is the starting vendor list seeded on first run.
var DefaultVendors = []string{
	"Sams Club",
	"Costco",
	"Restaurant Depot",
	"Webrestaurant",
	"Keany Produce",
	"H-mart",
}
