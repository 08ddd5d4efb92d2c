package models

import "time"

// Vendor is a supplier of inventory items. Items reference vendors by
// name only; deleting a vendor does not touch the items that mention it.
type Vendor struct {
	Name                    string
	ContactInfo             string
	Address                 string
	Phone                   string
	Email                   string
	ExcludeFromShoppingList bool
}

// Key returns the canonical lookup key for the vendor name.
func (v *Vendor) Key() string {
	return ItemKey(v.Name)
}

// Category is an item grouping. The working set is the union of
// DefaultCategories and admin-created categories.
type Category struct {
	Name        string
	Description string
	CreatedAt   time.Time
}

// Key returns the canonical lookup key for the category name.
func (c *Category) Key() string {
	return ItemKey(c.Name)
}
