package models

// Role is a user's privilege level. Privilege is a total order:
// admin covers everything manager can do, manager covers staff.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Valid returns true if the role is a recognized value.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

// rank orders roles by privilege.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleStaff:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether this role carries at least the privilege of other.
func (r Role) AtLeast(other Role) bool {
	return r.rank() >= other.rank()
}

// User is an account allowed to operate on the inventory. Authentication
// happens at the boundary; the engine trusts the (username, role) pair
// handed to it.
type User struct {
	Username     string
	PasswordHash string
	Role         Role
	Email        string
}
