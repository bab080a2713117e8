package persistence

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/datascope"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	latestNoteJoin = "LEFT JOIN notes last_notes ON last_notes.id = " +
		"(SELECT n.id FROM notes n WHERE n.customer_id = customers.id ORDER BY n.timestamp DESC, n.id DESC LIMIT 1)"
	latestNoteAuthorJoin = "LEFT JOIN users last_note_users ON last_note_users.id = last_notes.user_id"
	subscribedColumns    = "customers.*, last_notes.note AS last_note, last_notes.timestamp AS last_note_timestamp, " +
		"last_note_users.name AS last_note_by"
)

// GormCustomerUserRepository implements CustomerUserRepository using GORM
type GormCustomerUserRepository struct {
	db *gorm.DB
}

// NewGormCustomerUserRepository creates a new GormCustomerUserRepository
func NewGormCustomerUserRepository(db *gorm.DB) *GormCustomerUserRepository {
	return &GormCustomerUserRepository{db: db}
}

// ListForSupplier lists the customers the actor is subscribed to with their latest note
func (r *GormCustomerUserRepository) ListForSupplier(ctx context.Context, actorID int64, params shared.ListParams) ([]partner.SubscribedCustomer, error) {
	q := query.New(SubscribedCustomerSpec, params)
	var rows []models.SubscribedCustomerRow
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Select(subscribedColumns).
		Joins(latestNoteJoin).
		Joins(latestNoteAuthorJoin).
		Scopes(datascope.Subscribed(actorID, "customers.id"), q.Apply()).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]partner.SubscribedCustomer, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// CountForSupplier counts subscribed customers matching the same filters
func (r *GormCustomerUserRepository) CountForSupplier(ctx context.Context, actorID int64, params shared.ListParams) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Scopes(datascope.Subscribed(actorID, "customers.id"), query.New(SubscribedCustomerSpec, params).Where()).
		Count(&total).Error
	return total, err
}

// Subscribe creates the subscription if it does not exist yet
func (r *GormCustomerUserRepository) Subscribe(ctx context.Context, actorID, customerID int64) error {
	model := &models.CustomerUserModel{UserID: actorID, CustomerID: customerID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "customer_id"}},
			DoNothing: true,
		}).
		Create(model).Error
	return translateError(err, shared.ErrCustomerNotFound)
}

// Unsubscribe removes the subscription; removing a missing one is not an error
func (r *GormCustomerUserRepository) Unsubscribe(ctx context.Context, actorID, customerID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND customer_id = ?", actorID, customerID).
		Delete(&models.CustomerUserModel{}).Error
}

// Ensure GormCustomerUserRepository implements CustomerUserRepository
var _ partner.CustomerUserRepository = (*GormCustomerUserRepository)(nil)
