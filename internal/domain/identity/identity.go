// Package identity contains the domain model for users, role tags and the
// authenticated session. This is the core of the authorization rules and
// has no external dependencies.
package identity

import (
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLE TAGS
// ══════════════════════════════════════════════════════════════════════════════

// Role is the primary role tag of an identity. It is a closed set; the
// collaborator transmits it as a free-form string, so parsing is
// case-insensitive and anything outside the set stays a distinct value
// that no role gate will ever match.
type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleTeacher   Role = "TEACHER"
	RoleAdmin     Role = "ADMIN"
	RoleSecretary Role = "SECRETARY"
	RoleUser      Role = "USER"
)

// ParseRole normalizes a wire-level role string into a Role. Unknown
// values are preserved (upper-cased) rather than coerced, so they can be
// logged and can never satisfy an allow-list by accident.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// IsValid reports whether the role is one of the known tags.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleSecretary, RoleUser:
		return true
	}
	return false
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY
// ══════════════════════════════════════════════════════════════════════════════

// UserID is the collaborator-assigned numeric identifier of an identity.
type UserID int64

// IsValid checks that the ID is positive.
func (u UserID) IsValid() bool {
	return u > 0
}

// String returns the string representation.
func (u UserID) String() string {
	return fmt.Sprintf("%d", u)
}

// Identity is a user record as owned by the remote collaborator.
//
// Type is the primary role tag. RawRole is the legacy free-text role
// column; the only business rule still reading it is the exam edit
// capability, which compares it against the literal "SECRETARY".
type Identity struct {
	ID        UserID
	FirstName string
	LastName  string
	Email     string
	RawRole   string
	Type      Role
}

// FullName returns "first last" for display purposes.
func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// HasType reports whether the identity's upper-cased type matches any of
// the given roles. The upper-casing mirrors the route guards of the
// original application, which compared user.type case-insensitively.
func (i Identity) HasType(allowed ...Role) bool {
	tag := ParseRole(string(i.Type))
	for _, r := range allowed {
		if tag == r {
			return true
		}
	}
	return false
}
