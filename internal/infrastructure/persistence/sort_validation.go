package persistence

import (
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"gorm.io/gorm"
)

// List specs: the filters, sort allow-lists and page defaults of every list
// operation. Sort names accept both the column spelling (month_value) and the
// camelCase one (monthValue); anything else falls back to the default sort.

var customerSorts = map[string]string{
	"id":               "customers.id",
	"code":             "customers.code",
	"title":            "customers.title",
	"currency":         "customers.currency",
	"address":          "customers.address",
	"lastDelivered":    "customers.last_delivered",
	"last_delivered":   "customers.last_delivered",
	"monthValue":       "customers.month_value",
	"month_value":      "customers.month_value",
	"threatenedValue":  "customers.threatened_value",
	"threatened_value": "customers.threatened_value",
	"growth":           "customers.growth",
	"modified":         "customers.modified",
}

var customerFilters = []query.Filter{
	{Param: "searchCode", Column: "customers.code", Mode: query.MatchExact},
	{Param: "searchTitle", Column: "customers.title", Mode: query.MatchFuzzy},
	{Param: "searchCustomer", Column: "customers.title", Mode: query.MatchFuzzy},
}

// CustomerAdminSpec drives the admin customer list.
var CustomerAdminSpec = query.MustSpec(query.Spec{
	Filters: append([]query.Filter{
		{Param: "searchSupplierTitle", Column: "suppliers.title", Mode: query.MatchFuzzy},
		{Param: "searchSupplier", Column: "suppliers.title", Mode: query.MatchFuzzy},
		{Param: "searchSupplierCode", Column: "suppliers.code", Mode: query.MatchExact},
	}, customerFilters...),
	Sorts: mergeSorts(customerSorts, map[string]string{
		"supplierCode":  "suppliers.code",
		"supplierTitle": "suppliers.title",
	}),
	DefaultSort:  "customers.id",
	DefaultLimit: shared.DefaultAdminLimit,
})

// CustomerSupplierSpec drives the supplier's managed customer list. The
// subscribed column is the select alias added by datascope.SubscribedFlag.
var CustomerSupplierSpec = query.MustSpec(query.Spec{
	Filters: customerFilters,
	Sorts: mergeSorts(customerSorts, map[string]string{
		"subscribed": "subscribed",
		"u_id":       "subscribed",
	}),
	DefaultSort:  "customers.id",
	DefaultLimit: shared.DefaultLimit,
})

// SubscribedCustomerSpec drives the supplier's followed customer list.
var SubscribedCustomerSpec = query.MustSpec(query.Spec{
	Filters: customerFilters,
	Sorts: mergeSorts(customerSorts, map[string]string{
		"lastNoteTimestamp": "last_notes.timestamp",
	}),
	DefaultSort:  "customers.id",
	DefaultLimit: shared.DefaultLimit,
})

// SupplierAdminSpec drives the admin supplier list.
var SupplierAdminSpec = query.MustSpec(query.Spec{
	Filters: []query.Filter{
		{Param: "searchCode", Column: "suppliers.code", Mode: query.MatchExact},
		{Param: "searchTitle", Column: "suppliers.title", Mode: query.MatchFuzzy},
	},
	Sorts: map[string]string{
		"id":    "suppliers.id",
		"code":  "suppliers.code",
		"title": "suppliers.title",
	},
	DefaultSort:  "suppliers.id",
	DefaultLimit: shared.DefaultAdminLimit,
})

// SupplierUserAdminSpec drives the admin supplier-user list.
var SupplierUserAdminSpec = query.MustSpec(query.Spec{
	Filters: []query.Filter{
		{Param: "searchName", Column: "users.name", Mode: query.MatchFuzzy},
		{Param: "searchEmail", Column: "users.email", Mode: query.MatchFuzzy},
		{Param: "searchRole", Column: "users.role", Mode: query.MatchExact},
		{Param: "searchSupplierTitle", Column: "suppliers.title", Mode: query.MatchFuzzy},
		{Param: "searchSupplier", Column: "suppliers.title", Mode: query.MatchFuzzy},
		{Param: "searchSupplierCode", Column: "suppliers.code", Mode: query.MatchExact},
	},
	Sorts: map[string]string{
		"id":            "supplier_users.id",
		"name":          "users.name",
		"email":         "users.email",
		"phone":         "users.phone",
		"role":          "users.role",
		"supplierCode":  "suppliers.code",
		"supplierTitle": "suppliers.title",
	},
	DefaultSort:  "supplier_users.id",
	DefaultLimit: shared.DefaultAdminLimit,
})

// NoteSpec drives a customer's note list.
var NoteSpec = query.MustSpec(query.Spec{
	Filters: []query.Filter{
		{Param: "searchUser", Column: "users.name", Mode: query.MatchFuzzy},
		{Param: "searchNote", Column: "notes.note", Mode: query.MatchFuzzy},
	},
	Sorts: map[string]string{
		"id":        "notes.id",
		"timestamp": "notes.timestamp",
		"user":      "users.name",
	},
	DefaultSort:  "notes.timestamp",
	DefaultLimit: shared.DefaultLimit,
})

var productSorts = map[string]string{
	"id":            "products.id",
	"code":          "products.code",
	"title":         "products.title",
	"listPrice":     "products.list_price",
	"list_price":    "products.list_price",
	"supplierCode":  "suppliers.code",
	"supplierTitle": "suppliers.title",
}

// ProductAdminSpec drives the admin product list.
var ProductAdminSpec = query.MustSpec(query.Spec{
	Filters: []query.Filter{
		{Param: "searchCode", Column: "products.code", Mode: query.MatchExact},
		{Param: "searchTitle", Column: "products.title", Mode: query.MatchFuzzy},
		{Param: "searchProduct", Column: "products.title", Mode: query.MatchFuzzy},
		{Param: "searchSupplierTitle", Column: "suppliers.title", Mode: query.MatchFuzzy},
		{Param: "searchSupplier", Column: "suppliers.title", Mode: query.MatchFuzzy},
		{Param: "searchSupplierCode", Column: "suppliers.code", Mode: query.MatchExact},
	},
	Sorts:        productSorts,
	DefaultSort:  "products.id",
	DefaultLimit: shared.DefaultAdminLimit,
})

var customerProductSorts = map[string]string{
	"id":             "customer_products.id",
	"lastDelivered":  "customer_products.last_delivered",
	"last_delivered": "customer_products.last_delivered",
	"margin":         "customer_products.margin",
	"outlier":        "customer_products.outlier",
	"period":         "customer_products.period",
	"price":          "customer_products.price",
	"monthValue":     "customer_products.month_value",
	"month_value":    "customer_products.month_value",
	"growth":         "customer_products.growth",
	"active":         "customer_products.active",
	"modified":       "customer_products.modified",
	"productCode":    "products.code",
	"productTitle":   "products.title",
	"customerCode":   "customers.code",
	"customerTitle":  "customers.title",
}

// productCustomerFilters are the admin-side searches over the joined product
// and customer of a row.
var productCustomerFilters = []query.Filter{
	{Param: "searchProductCode", Column: "products.code", Mode: query.MatchExact},
	{Param: "searchProductTitle", Column: "products.title", Mode: query.MatchFuzzy},
	{Param: "searchCustomerCode", Column: "customers.code", Mode: query.MatchExact},
	{Param: "searchCustomerTitle", Column: "customers.title", Mode: query.MatchFuzzy},
}

var customerProductFilters = append([]query.Filter{
	{Param: "searchCode", Column: "products.code", Mode: query.MatchExact},
	{Param: "searchTitle", Column: "products.title", Mode: query.MatchFuzzy},
	{Param: "searchProduct", Column: "products.title", Mode: query.MatchFuzzy},
	{Param: "searchCustomer", Column: "customers.title", Mode: query.MatchFuzzy},
}, productCustomerFilters...)

// CustomerProductAdminSpec drives the admin customer product list.
var CustomerProductAdminSpec = query.MustSpec(query.Spec{
	Filters:      customerProductFilters,
	Flags:        []query.Flag{{Param: "overdue", Scope: overdueScope}, {Param: "active", Scope: activeScope}},
	Sorts:        customerProductSorts,
	DefaultSort:  "customer_products.id",
	DefaultLimit: shared.DefaultAdminLimit,
})

// CustomerProductSupplierSpec drives a followed customer's product list.
var CustomerProductSupplierSpec = query.MustSpec(query.Spec{
	Filters:      customerProductFilters,
	Flags:        []query.Flag{{Param: "overdue", Scope: overdueScope}, {Param: "active", Scope: activeScope}},
	Sorts:        customerProductSorts,
	DefaultSort:  "customer_products.id",
	DefaultLimit: shared.DefaultLimit,
})

var transactionSorts = map[string]string{
	"id":            "transactions.id",
	"cost":          "transactions.cost",
	"price":         "transactions.price",
	"quantity":      "transactions.quantity",
	"delivered":     "transactions.delivered",
	"stopped":       "transactions.stopped",
	"modified":      "transactions.modified",
	"code":          "products.code",
	"title":         "products.title",
	"productCode":   "products.code",
	"productTitle":  "products.title",
	"customerCode":  "customers.code",
	"customerTitle": "customers.title",
}

var transactionFilters = append([]query.Filter{
	{Param: "searchCode", Column: "products.code", Mode: query.MatchExact},
	{Param: "searchTitle", Column: "products.title", Mode: query.MatchFuzzy},
	{Param: "searchProduct", Column: "products.title", Mode: query.MatchFuzzy},
	{Param: "searchCustomer", Column: "customers.title", Mode: query.MatchFuzzy},
}, productCustomerFilters...)

// TransactionAdminSpec drives the admin transaction list.
var TransactionAdminSpec = query.MustSpec(query.Spec{
	Filters:      transactionFilters,
	Flags:        []query.Flag{{Param: "stopped", Scope: stoppedScope}},
	Sorts:        transactionSorts,
	DefaultSort:  "transactions.id",
	DefaultLimit: shared.DefaultAdminLimit,
})

// TransactionSupplierSpec drives a followed customer's transaction list.
var TransactionSupplierSpec = query.MustSpec(query.Spec{
	Filters:      transactionFilters,
	Flags:        []query.Flag{{Param: "stopped", Scope: stoppedScope}},
	Sorts:        transactionSorts,
	DefaultSort:  "transactions.delivered",
	DefaultLimit: shared.DefaultLimit,
})

// OrderSpec pages the orders view. Only paging applies; dates are always newest first.
var OrderSpec = query.MustSpec(query.Spec{DefaultLimit: shared.DefaultLimit})

// overdueScope keeps active rows whose last delivery is more than period days ago.
func overdueScope(db *gorm.DB) *gorm.DB {
	if query.IsPostgres(db) {
		return db.Where("EXTRACT(DAY FROM NOW() - customer_products.last_delivered) > customer_products.period AND customer_products.active")
	}
	return db.Where("CAST(julianday('now') - julianday(customer_products.last_delivered) AS INTEGER) > customer_products.period AND customer_products.active")
}

func activeScope(db *gorm.DB) *gorm.DB {
	return db.Where("customer_products.active = ?", true)
}

func stoppedScope(db *gorm.DB) *gorm.DB {
	return db.Where("transactions.stopped = ?", true)
}

func mergeSorts(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
