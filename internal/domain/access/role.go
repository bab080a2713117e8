// Package access holds the static role/permission policy consulted before
// any repository call.
package access

import (
	"fmt"
	"strings"
)

// Role is the closed set of actor roles issued by the identity provider.
type Role int

const (
	// RoleUnknown is the zero value and is never granted anything.
	RoleUnknown Role = iota
	RoleAdmin
	RoleSupplier
)

// String returns the identity-provider group name for the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSupplier:
		return "supplier"
	case RoleUnknown:
		return "unknown"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Valid reports whether r is one of the named roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupplier:
		return true
	case RoleUnknown:
		return false
	}
	return false
}

// ParseRole maps a group name to a Role.
func ParseRole(name string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin":
		return RoleAdmin, nil
	case "supplier":
		return RoleSupplier, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", name)
}

// RoleFromGroups picks the most privileged known role from a claim list.
// Unknown group names are ignored.
func RoleFromGroups(groups []string) Role {
	best := RoleUnknown
	for _, g := range groups {
		r, err := ParseRole(g)
		if err != nil {
			continue
		}
		if r == RoleAdmin {
			return RoleAdmin
		}
		best = r
	}
	return best
}
