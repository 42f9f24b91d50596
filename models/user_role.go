package models

import (
	"time"
)

// Role is what a user is allowed to do in the system.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// UserRole maps a user identifier to its selected role. A user without an
// entry is treated as a customer, never as an admin.
type UserRole struct {
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
