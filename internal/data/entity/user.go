package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
	RoleGuest UserRole = "guest"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleGuest:
		return true
	}
	return false
}

// User is owned by the account service; the booking engine only reads it.
type User struct {
	Base
	FirstName string   `db:"first_name"`
	LastName  string   `db:"last_name"`
	Email     string   `db:"email"`
	Role      UserRole `db:"role"`
	IsActive  bool     `db:"is_active"`
}

// Actor is the caller identity handed over by the auth boundary.
// A nil *Actor means a trusted internal caller.
type Actor struct {
	ID   uuid.UUID
	Role UserRole
}

func (a *Actor) IsGuest() bool {
	return a != nil && a.Role == RoleGuest
}

// IsStaff reports whether the actor is staff or admin.
func (a *Actor) IsStaff() bool {
	return a != nil && (a.Role == RoleStaff || a.Role == RoleAdmin)
}
