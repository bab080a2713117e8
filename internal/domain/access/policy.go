package access

import "github.com/eightysix/analytics/internal/domain/shared"

// Grant gives a role a set of permissions on one resource.
type Grant struct {
	Role        Role
	Resource    Resource
	Permissions []Permission
}

type grantKey struct {
	role     Role
	action   Action
	resource Resource
}

// Policy is an immutable (role, action, resource) -> scope table.
// Build it once at startup and pass it to whatever needs it.
type Policy struct {
	grants map[grantKey]Scope
}

// NewPolicy builds a policy from grants. An Any grant also satisfies Own.
func NewPolicy(grants ...Grant) *Policy {
	p := &Policy{grants: make(map[grantKey]Scope)}
	for _, g := range grants {
		if !g.Role.Valid() {
			continue
		}
		for _, perm := range g.Permissions {
			k := grantKey{role: g.Role, action: perm.Action, resource: g.Resource}
			if existing, ok := p.grants[k]; ok && existing == ScopeAny {
				continue
			}
			p.grants[k] = perm.Scope
		}
	}
	return p
}

// Check returns nil when role may perform perm on resource, and
// shared.ErrForbidden otherwise. It never reports not-found.
func (p *Policy) Check(role Role, perm Permission, resource Resource) error {
	if p.Allowed(role, perm, resource) {
		return nil
	}
	return shared.ErrForbidden
}

// Allowed is the boolean form of Check.
func (p *Policy) Allowed(role Role, perm Permission, resource Resource) bool {
	if p == nil || !role.Valid() {
		return false
	}
	scope, ok := p.grants[grantKey{role: role, action: perm.Action, resource: resource}]
	if !ok {
		return false
	}
	return scope == ScopeAny || scope == perm.Scope
}

// DefaultPolicy is the production grant table.
func DefaultPolicy() *Policy {
	ownCRUD := []Permission{CreateOwn, ReadOwn, UpdateOwn, DeleteOwn}
	anyCRUD := []Permission{CreateAny, ReadAny, UpdateAny, DeleteAny}
	return NewPolicy(
		Grant{RoleSupplier, ResourceCustomer, []Permission{ReadOwn}},
		Grant{RoleSupplier, ResourceCustomerUser, []Permission{ReadOwn, UpdateOwn}},
		Grant{RoleSupplier, ResourceCustomerNote, ownCRUD},
		Grant{RoleSupplier, ResourceCustomerProduct, []Permission{ReadOwn, UpdateOwn}},
		Grant{RoleSupplier, ResourceCustomerTransaction, []Permission{ReadOwn, UpdateOwn}},
		Grant{RoleSupplier, ResourceDownload, []Permission{CreateOwn, ReadOwn, DeleteOwn}},

		Grant{RoleAdmin, ResourceSupplierUser, anyCRUD},
		Grant{RoleAdmin, ResourceCustomerUser, anyCRUD},
		Grant{RoleAdmin, ResourceCustomer, []Permission{CreateAny, ReadAny, UpdateAny}},
		Grant{RoleAdmin, ResourceProduct, []Permission{CreateAny, ReadAny, UpdateAny}},
		Grant{RoleAdmin, ResourceCustomerProduct, []Permission{CreateAny, ReadAny, UpdateAny}},
		Grant{RoleAdmin, ResourceTransaction, []Permission{CreateAny, ReadAny, UpdateAny}},
		Grant{RoleAdmin, ResourceSupplier, []Permission{CreateAny, ReadAny, UpdateAny}},
	)
}
