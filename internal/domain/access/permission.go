package access

// Action is a CRUD verb.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Scope is the row-level breadth of a grant. Own requires an ownership link
// to the row, Any does not.
type Scope string

const (
	ScopeOwn Scope = "own"
	ScopeAny Scope = "any"
)

// Permission is an action paired with its scope.
type Permission struct {
	Action Action
	Scope  Scope
}

// String renders the permission as e.g. "readOwn".
func (p Permission) String() string {
	s := "Own"
	if p.Scope == ScopeAny {
		s = "Any"
	}
	return string(p.Action) + s
}

var (
	CreateOwn = Permission{ActionCreate, ScopeOwn}
	ReadOwn   = Permission{ActionRead, ScopeOwn}
	UpdateOwn = Permission{ActionUpdate, ScopeOwn}
	DeleteOwn = Permission{ActionDelete, ScopeOwn}
	CreateAny = Permission{ActionCreate, ScopeAny}
	ReadAny   = Permission{ActionRead, ScopeAny}
	UpdateAny = Permission{ActionUpdate, ScopeAny}
	DeleteAny = Permission{ActionDelete, ScopeAny}
)

// Resource is the closed set of resource types the policy knows about.
type Resource string

const (
	ResourceCustomer            Resource = "customer"
	ResourceCustomerUser        Resource = "customer-user"
	ResourceCustomerNote        Resource = "customer-note"
	ResourceCustomerProduct     Resource = "customer-product"
	ResourceCustomerTransaction Resource = "customer-transaction"
	ResourceSupplierUser        Resource = "supplier-user"
	ResourceProduct             Resource = "product"
	ResourceTransaction         Resource = "transaction"
	ResourceSupplier            Resource = "supplier"
	ResourceDownload            Resource = "download"
)

// AllResources lists every resource type.
func AllResources() []Resource {
	return []Resource{
		ResourceCustomer,
		ResourceCustomerUser,
		ResourceCustomerNote,
		ResourceCustomerProduct,
		ResourceCustomerTransaction,
		ResourceSupplierUser,
		ResourceProduct,
		ResourceTransaction,
		ResourceSupplier,
		ResourceDownload,
	}
}
