package persistence

import (
	"net/url"
	"testing"

	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"github.com/stretchr/testify/assert"
)

func TestListSpecs_Valid(t *testing.T) {
	specs := map[string]query.Spec{
		"customer admin":            CustomerAdminSpec,
		"customer supplier":         CustomerSupplierSpec,
		"subscribed customer":       SubscribedCustomerSpec,
		"supplier admin":            SupplierAdminSpec,
		"supplier user admin":       SupplierUserAdminSpec,
		"note":                      NoteSpec,
		"product admin":             ProductAdminSpec,
		"customer product admin":    CustomerProductAdminSpec,
		"customer product supplier": CustomerProductSupplierSpec,
		"transaction admin":         TransactionAdminSpec,
		"transaction supplier":      TransactionSupplierSpec,
		"order":                     OrderSpec,
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, spec.Validate())
		})
	}
}

func TestListSpecs_DefaultLimits(t *testing.T) {
	tests := []struct {
		name string
		spec query.Spec
		want int
	}{
		{"admin customers", CustomerAdminSpec, 50},
		{"admin products", ProductAdminSpec, 50},
		{"admin transactions", TransactionAdminSpec, 50},
		{"supplier customers", CustomerSupplierSpec, 10},
		{"supplier products", CustomerProductSupplierSpec, 10},
		{"notes", NoteSpec, 10},
		{"orders", OrderSpec, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query.Parse(url.Values{"limit": {"garbage"}}, tt.spec).Limit())
		})
	}
}

func TestListSpecs_SortAllowList(t *testing.T) {
	tests := []struct {
		name   string
		spec   query.Spec
		sortBy string
		want   string
	}{
		{"customer month value", CustomerSupplierSpec, "monthValue", "customers.month_value"},
		{"customer unknown field", CustomerSupplierSpec, "password", "customers.id"},
		{"customer injection", CustomerSupplierSpec, "id; DROP TABLE users;--", "customers.id"},
		{"admin customer by supplier", CustomerAdminSpec, "supplierTitle", "suppliers.title"},
		{"supplier user email", SupplierUserAdminSpec, "email", "users.email"},
		{"subscribed last note", SubscribedCustomerSpec, "lastNoteTimestamp", "last_notes.timestamp"},
		{"case sensitive names", CustomerSupplierSpec, "MONTHVALUE", "customers.id"},
		{"customer month_value", CustomerAdminSpec, "month_value", "customers.month_value"},
		{"customer threatened_value", CustomerAdminSpec, "threatened_value", "customers.threatened_value"},
		{"customer last_delivered", CustomerSupplierSpec, "last_delivered", "customers.last_delivered"},
		{"supplier customer u_id", CustomerSupplierSpec, "u_id", "subscribed"},
		{"u_id needs the subscription flag", CustomerAdminSpec, "u_id", "customers.id"},
		{"product list_price", ProductAdminSpec, "list_price", "products.list_price"},
		{"customer product month_value", CustomerProductAdminSpec, "month_value", "customer_products.month_value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query.Parse(url.Values{"sortBy": {tt.sortBy}}, tt.spec).SortColumn())
		})
	}
}

func TestMergeSorts(t *testing.T) {
	base := map[string]string{"a": "t.a"}
	merged := mergeSorts(base, map[string]string{"b": "t.b"})

	assert.Equal(t, map[string]string{"a": "t.a", "b": "t.b"}, merged)
	assert.Len(t, base, 1)
}
