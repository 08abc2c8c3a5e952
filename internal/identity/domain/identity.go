// Package domain defines the identity entity shared by clients and users, and the
// errors raised when its uniqueness invariants are violated.
//
// Email and national ID are each unique across the identity collection. Role is
// optional: identities created without a role behave as plain clients.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role discriminates user identities. The zero value means no role was assigned.
type Role string

const (
	// RoleNone marks an identity without a role.
	RoleNone Role = ""
	// RoleClient marks an identity acting as a loan client.
	RoleClient Role = "CLIENT"
	// RoleManager marks an identity managing loan requests.
	RoleManager Role = "MANAGER"
)

// Roles lists the assignable roles.
var Roles = []Role{RoleClient, RoleManager}

// IsValid reports whether r is RoleNone or one of the assignable roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleNone, RoleClient, RoleManager:
		return true
	default:
		return false
	}
}

// ParseRole converts s into a Role ignoring case. An empty string yields RoleNone.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return RoleNone, ErrInvalidRole
	}
	return role, nil
}

// Identity represents a client or user that can borrow.
type Identity struct {
	ID         uuid.UUID // Unique identifier (UUIDv7), assigned on creation
	Name       string
	NationalID string // DNI: 8 digits followed by an uppercase letter
	Email      string
	Role       Role
	CreatedAt  time.Time // Set once on creation
}

// CreateIdentityInput contains the parameters for registering a new identity.
type CreateIdentityInput struct {
	Name       string
	NationalID string
	Email      string
	Role       Role
}

// UpdateIdentityInput contains the mutable fields of an identity.
// ID and CreatedAt can never be modified.
type UpdateIdentityInput struct {
	Name       string
	NationalID string
	Email      string
	Role       Role
}

// ListFilter narrows identity listings. Nil fields are wildcards; supplied
// fields are combined with AND.
type ListFilter struct {
	Email      *string
	NationalID *string
	Role       *Role
}
