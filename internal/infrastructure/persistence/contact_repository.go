package persistence

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/contact"
	"github.com/eightysix/analytics/internal/domain/export"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormApplicationRepository implements ApplicationRepository using GORM
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewGormApplicationRepository creates a new GormApplicationRepository
func NewGormApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// Create stores a contact form submission and sets its ID
func (r *GormApplicationRepository) Create(ctx context.Context, app *contact.Application) error {
	model := models.ApplicationModelFromDomain(app)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	app.ID = model.ID
	return nil
}

// GormDownloadKeyRepository implements DownloadKeyRepository using GORM
type GormDownloadKeyRepository struct {
	db *gorm.DB
}

// NewGormDownloadKeyRepository creates a new GormDownloadKeyRepository
func NewGormDownloadKeyRepository(db *gorm.DB) *GormDownloadKeyRepository {
	return &GormDownloadKeyRepository{db: db}
}

// Create stores a download key and sets its ID
func (r *GormDownloadKeyRepository) Create(ctx context.Context, key *export.DownloadKey) error {
	model := models.DownloadKeyModelFromDomain(key)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, shared.ErrDownloadNotFound)
	}
	key.ID = model.ID
	return nil
}

// GetByKey finds a download key by its token
func (r *GormDownloadKeyRepository) GetByKey(ctx context.Context, key string) (*export.DownloadKey, error) {
	var model models.DownloadKeyModel
	if err := r.db.WithContext(ctx).Where("download_keys.key = ?", key).Take(&model).Error; err != nil {
		return nil, translateError(err, shared.ErrDownloadNotFound)
	}
	return model.ToDomain(), nil
}

// Delete removes a download key
func (r *GormDownloadKeyRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DownloadKeyModel{}).Error
}

// Ensure repositories implement their interfaces
var (
	_ contact.ApplicationRepository = (*GormApplicationRepository)(nil)
	_ export.DownloadKeyRepository  = (*GormDownloadKeyRepository)(nil)
)
