// Package caller carries the resolved identity and role of whoever invoked
// a domain operation. Services depend on this instead of HTTP types.
package caller

import (
	"estate_portal_backend/platform/httpkit"

	"github.com/google/uuid"
)

// Role is one of the portal roles.
type Role string

const (
	RoleClient Role = httpkit.RoleClient
	RoleAgent  Role = httpkit.RoleAgent
	RoleAdmin  Role = httpkit.RoleAdmin
)

// Caller is the identity a mutation is performed under. The zero value is
// anonymous.
type Caller struct {
	ID   uuid.UUID
	Role Role
}

// New returns an authenticated caller.
func New(id uuid.UUID, role Role) Caller {
	return Caller{ID: id, Role: role}
}

// FromIdentity converts the HTTP identity into a Caller.
func FromIdentity(id httpkit.Identity) Caller {
	if id == nil || !id.IsAuthenticated() {
		return Caller{}
	}
	return Caller{ID: id.UserID(), Role: Role(id.Role())}
}

// IsAuthenticated reports whether the caller has a resolved identity.
func (c Caller) IsAuthenticated() bool {
	return c.ID != uuid.Nil
}

func (c Caller) IsAdmin() bool  { return c.IsAuthenticated() && c.Role == RoleAdmin }
func (c Caller) IsAgent() bool  { return c.IsAuthenticated() && c.Role == RoleAgent }
func (c Caller) IsClient() bool { return c.IsAuthenticated() && c.Role == RoleClient }

// IsStaff reports whether the caller is an agent or an admin.
func (c Caller) IsStaff() bool { return c.IsAgent() || c.IsAdmin() }

// Owns reports whether the caller is the given user. A nil owner is never
// owned by anyone.
func (c Caller) Owns(owner *uuid.UUID) bool {
	return c.IsAuthenticated() && owner != nil && *owner == c.ID
}
