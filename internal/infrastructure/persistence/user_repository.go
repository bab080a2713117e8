package persistence

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByID finds a user by ID
func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrUserNotFound)
	}
	return model.ToDomain(), nil
}

// GetByEmail finds a user by normalized email
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", identity.NormalizeEmail(email)).
		Take(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrUserNotFound)
	}
	return model.ToDomain(), nil
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, shared.ErrUserNotFound)
	}
	user.ID = model.ID
	return nil
}

// Update updates name, phone and role
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"name":  user.Name,
			"phone": user.Phone,
			"role":  user.Role.String(),
		})
	if result.Error != nil {
		return translateError(result.Error, shared.ErrUserNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

// DeleteWithLinks removes the user's notes, subscriptions and staff links
// together with the user row
func (r *GormUserRepository) DeleteWithLinks(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, link := range []any{&models.CustomerUserModel{}, &models.SupplierUserModel{}, &models.NoteModel{}} {
			if err := tx.Where("user_id = ?", id).Delete(link).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&models.UserModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrUserNotFound
		}
		return nil
	})
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
