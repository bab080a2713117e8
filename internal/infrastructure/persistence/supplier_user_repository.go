package persistence

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/query"
	"gorm.io/gorm"
)

const supplierUserViewColumns = "supplier_users.id, supplier_users.user_id, supplier_users.supplier_id, " +
	"users.name, users.email, users.phone, users.role, " +
	"suppliers.code AS supplier_code, suppliers.title AS supplier_title"

// GormSupplierUserRepository implements SupplierUserRepository using GORM
type GormSupplierUserRepository struct {
	db *gorm.DB
}

// NewGormSupplierUserRepository creates a new GormSupplierUserRepository
func NewGormSupplierUserRepository(db *gorm.DB) *GormSupplierUserRepository {
	return &GormSupplierUserRepository{db: db}
}

func (r *GormSupplierUserRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.SupplierUserModel{}).
		Joins("JOIN users ON users.id = supplier_users.user_id").
		Joins("JOIN suppliers ON suppliers.id = supplier_users.supplier_id")
}

// ListForAdmin lists links with user contact data and supplier code/title
func (r *GormSupplierUserRepository) ListForAdmin(ctx context.Context, params shared.ListParams) ([]partner.SupplierUserView, error) {
	var rows []models.SupplierUserViewRow
	if err := r.joined(ctx).
		Select(supplierUserViewColumns).
		Scopes(query.New(SupplierUserAdminSpec, params).Apply()).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]partner.SupplierUserView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return views, nil
}

// CountForAdmin counts links matching the same filters as ListForAdmin
func (r *GormSupplierUserRepository) CountForAdmin(ctx context.Context, params shared.ListParams) (int64, error) {
	var total int64
	err := r.joined(ctx).
		Scopes(query.New(SupplierUserAdminSpec, params).Where()).
		Count(&total).Error
	return total, err
}

// GetByID finds a bare link
func (r *GormSupplierUserRepository) GetByID(ctx context.Context, id int64) (*partner.SupplierUser, error) {
	var model models.SupplierUserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrUserNotFound)
	}
	return model.ToDomain(), nil
}

// GetByIDForAdmin finds a link with its admin projection
func (r *GormSupplierUserRepository) GetByIDForAdmin(ctx context.Context, id int64) (*partner.SupplierUserView, error) {
	var row models.SupplierUserViewRow
	if err := r.joined(ctx).
		Select(supplierUserViewColumns).
		Where("supplier_users.id = ?", id).
		Take(&row).Error; err != nil {
		return nil, translateError(err, shared.ErrUserNotFound)
	}
	view := row.ToDomain()
	return &view, nil
}

// CreateWithUser inserts the user and its supplier link in one transaction
func (r *GormSupplierUserRepository) CreateWithUser(ctx context.Context, user *identity.User, supplierID int64) (*partner.SupplierUser, error) {
	var link *partner.SupplierUser
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", supplierID).Take(&models.SupplierModel{}).Error; err != nil {
			return translateError(err, shared.ErrSupplierNotFound)
		}
		userModel := models.UserModelFromDomain(user)
		if err := tx.Create(userModel).Error; err != nil {
			return translateError(err, shared.ErrUserNotFound)
		}
		linkModel := &models.SupplierUserModel{UserID: userModel.ID, SupplierID: supplierID}
		if err := tx.Create(linkModel).Error; err != nil {
			return translateError(err, shared.ErrUserNotFound)
		}
		user.ID = userModel.ID
		link = linkModel.ToDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// Link adds an existing user to a supplier's staff. Linking twice returns the
// existing link.
func (r *GormSupplierUserRepository) Link(ctx context.Context, userID, supplierID int64) (*partner.SupplierUser, error) {
	var model models.SupplierUserModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND supplier_id = ?", userID, supplierID).
		Attrs(models.SupplierUserModel{UserID: userID, SupplierID: supplierID}).
		FirstOrCreate(&model).Error
	if err != nil {
		return nil, translateError(err, shared.ErrUserNotFound)
	}
	return model.ToDomain(), nil
}

// Unlink removes the user's subscriptions to the supplier's customers and then
// the staff link itself, in one transaction.
func (r *GormSupplierUserRepository) Unlink(ctx context.Context, userID, supplierID int64) (int64, int64, error) {
	var customers, suppliers int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND customer_id IN (?)", userID,
			tx.Model(&models.CustomerModel{}).Select("id").Where("supplier_id = ?", supplierID),
		).Delete(&models.CustomerUserModel{})
		if res.Error != nil {
			return res.Error
		}
		customers = res.RowsAffected

		res = tx.Where("user_id = ? AND supplier_id = ?", userID, supplierID).Delete(&models.SupplierUserModel{})
		if res.Error != nil {
			return res.Error
		}
		suppliers = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return customers, suppliers, nil
}

// Ensure GormSupplierUserRepository implements SupplierUserRepository
var _ partner.SupplierUserRepository = (*GormSupplierUserRepository)(nil)
