package models

import (
	"time"

	"github.com/eightysix/analytics/internal/domain/contact"
	"github.com/eightysix/analytics/internal/domain/export"
)

// ApplicationModel is the persistence model for a contact form Application.
type ApplicationModel struct {
	IDModel
	Email     string    `gorm:"type:varchar(255);not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ApplicationModel) TableName() string {
	return "applications"
}

// ApplicationModelFromDomain creates a new persistence model from a domain Application.
func ApplicationModelFromDomain(a *contact.Application) *ApplicationModel {
	return &ApplicationModel{
		IDModel:   IDModel{ID: a.ID},
		Email:     a.Email,
		Name:      a.Name,
		Message:   a.Message,
		CreatedAt: a.CreatedAt,
	}
}

// DownloadKeyModel is the persistence model for an export DownloadKey.
type DownloadKeyModel struct {
	IDModel
	UserID      int64     `gorm:"not null;index"`
	File        string    `gorm:"type:varchar(1024);not null"`
	Key         string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_download_keys_key"`
	IsDeletable bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DownloadKeyModel) TableName() string {
	return "download_keys"
}

// ToDomain converts the persistence model to a domain DownloadKey.
func (m *DownloadKeyModel) ToDomain() *export.DownloadKey {
	return &export.DownloadKey{
		ID:          m.ID,
		UserID:      m.UserID,
		File:        m.File,
		Key:         m.Key,
		IsDeletable: m.IsDeletable,
		CreatedAt:   m.CreatedAt,
	}
}

// DownloadKeyModelFromDomain creates a new persistence model from a domain DownloadKey.
func DownloadKeyModelFromDomain(d *export.DownloadKey) *DownloadKeyModel {
	return &DownloadKeyModel{
		IDModel:     IDModel{ID: d.ID},
		UserID:      d.UserID,
		File:        d.File,
		Key:         d.Key,
		IsDeletable: d.IsDeletable,
		CreatedAt:   d.CreatedAt,
	}
}

// All returns every model, in dependency order, for schema setup in tests.
func All() []any {
	return []any{
		&SupplierModel{},
		&UserModel{},
		&SupplierUserModel{},
		&CustomerModel{},
		&CustomerUserModel{},
		&NoteModel{},
		&ProductModel{},
		&CustomerProductModel{},
		&TransactionModel{},
		&ApplicationModel{},
		&DownloadKeyModel{},
		&LocalIdentityModel{},
	}
}
