package persistence

import (
	"context"
	"time"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectionRepository implements ProjectionRepository using GORM
type GormProjectionRepository struct {
	db *gorm.DB
}

// NewGormProjectionRepository creates a new GormProjectionRepository
func NewGormProjectionRepository(db *gorm.DB) *GormProjectionRepository {
	return &GormProjectionRepository{db: db}
}

// ApplyCustomerAggregates locks the customer row, reads its products, and
// stores the computed totals in one transaction. Concurrent recomputes for the
// same customer serialize on the row lock.
func (r *GormProjectionRepository) ApplyCustomerAggregates(
	ctx context.Context,
	customerID int64,
	modified time.Time,
	compute func(active []catalog.CustomerProduct) catalog.Aggregates,
) (catalog.Aggregates, error) {
	var result catalog.Aggregates
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookup := tx.Model(&models.CustomerModel{}).Select("id").Where("id = ?", customerID)
		if query.IsPostgres(tx) {
			lookup = lookup.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var customer models.CustomerModel
		if err := lookup.Take(&customer).Error; err != nil {
			return translateError(err, shared.ErrCustomerNotFound)
		}

		var rows []models.CustomerProductModel
		if err := tx.Where("customer_id = ? AND active = ?", customerID, true).
			Order("id").
			Find(&rows).Error; err != nil {
			return err
		}
		products := make([]catalog.CustomerProduct, len(rows))
		for i := range rows {
			products[i] = *rows[i].ToDomain()
		}

		result = compute(products)
		return tx.Model(&models.CustomerModel{}).
			Where("id = ?", customerID).
			Updates(map[string]any{
				"month_value":      result.MonthValue,
				"threatened_value": result.ThreatenedValue,
				"modified":         modified,
			}).Error
	})
	if err != nil {
		return catalog.Aggregates{}, err
	}
	return result, nil
}

// Ensure GormProjectionRepository implements ProjectionRepository
var _ catalog.ProjectionRepository = (*GormProjectionRepository)(nil)
