// Package datascope provides row-level ownership filtering for GORM queries.
//
// A supplier user reaches customers through two independent relations:
//   - MANAGED: the user is staff of the supplier that owns the customer
//     (users -> supplier_users -> suppliers -> customers)
//   - SUBSCRIBED: the user follows the customer
//     (users -> customer_users -> customers)
//
// Listing all of a supplier's customers uses MANAGED; everything under a single
// customer (detail, products, transactions, orders) uses SUBSCRIBED.
//
// Usage:
//
//	db.Scopes(datascope.Managed(actorID, "customers.id")).Find(&customers)
//	db.Scopes(datascope.Subscribed(actorID, "transactions.customer_id")).Find(&txs)
package datascope

import (
	"context"
	"fmt"
	"regexp"

	"gorm.io/gorm"
)

// Kind selects an ownership relation.
type Kind int

const (
	KindManaged Kind = iota + 1
	KindSubscribed
)

func (k Kind) String() string {
	switch k {
	case KindManaged:
		return "managed"
	case KindSubscribed:
		return "subscribed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ScopeFunc is a GORM scope function type
type ScopeFunc func(*gorm.DB) *gorm.DB

const (
	managedExists    = "EXISTS (SELECT 1 FROM supplier_users su JOIN customers oc ON oc.supplier_id = su.supplier_id WHERE su.user_id = ? AND oc.id = %s)"
	subscribedExists = "EXISTS (SELECT 1 FROM customer_users cu WHERE cu.user_id = ? AND cu.customer_id = %s)"
)

// columnRegex restricts customer ID references to table.column identifiers.
var columnRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*\.[a-z_][a-z0-9_]*$`)

// Managed keeps rows whose customer belongs to a supplier the actor is staff of.
func Managed(actorID int64, customerIDColumn string) ScopeFunc {
	return scope(managedExists, actorID, customerIDColumn)
}

// Subscribed keeps rows whose customer the actor follows.
func Subscribed(actorID int64, customerIDColumn string) ScopeFunc {
	return scope(subscribedExists, actorID, customerIDColumn)
}

// Of returns the scope for kind.
func Of(kind Kind, actorID int64, customerIDColumn string) ScopeFunc {
	if kind == KindSubscribed {
		return Subscribed(actorID, customerIDColumn)
	}
	if kind == KindManaged {
		return Managed(actorID, customerIDColumn)
	}
	return func(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }
}

func scope(tmpl string, actorID int64, column string) ScopeFunc {
	return func(db *gorm.DB) *gorm.DB {
		if actorID == 0 || !columnRegex.MatchString(column) {
			// No actor or an unknown column - return empty result (safety)
			return db.Where("1 = 0")
		}
		return db.Where(fmt.Sprintf(tmpl, column), actorID)
	}
}

// SubscribedFlag returns a select expression yielding whether the actor
// follows the customer referenced by column, with the bind arguments it
// needs. An invalid column yields a constant false and no arguments.
func SubscribedFlag(actorID int64, column string) (string, []any) {
	if !columnRegex.MatchString(column) {
		return "FALSE AS subscribed", nil
	}
	return fmt.Sprintf(subscribedExists, column) + " AS subscribed", []any{actorID}
}

// Resolver answers point ownership questions.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a new Resolver
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// CustomerInScope reports whether the actor reaches customerID through kind.
func (r *Resolver) CustomerInScope(ctx context.Context, actorID, customerID int64, kind Kind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("customers").
		Where("customers.id = ?", customerID).
		Scopes(Of(kind, actorID, "customers.id")).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ManagesSupplier reports whether the actor is staff of supplierID.
func (r *Resolver) ManagesSupplier(ctx context.Context, actorID, supplierID int64) (bool, error) {
	if actorID == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Table("supplier_users").
		Where("user_id = ? AND supplier_id = ?", actorID, supplierID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
