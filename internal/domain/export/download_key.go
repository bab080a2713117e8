// Package export models generated files that a user can download later.
package export

import (
	"context"
	"strings"
	"time"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/google/uuid"
)

// DownloadKey is an opaque token granting its owner access to a stored file.
type DownloadKey struct {
	ID          int64
	UserID      int64
	File        string
	Key         string
	IsDeletable bool
	CreatedAt   time.Time
}

// NewDownloadKey creates a key for an object stored under file
func NewDownloadKey(userID int64, file string, deletable bool) (*DownloadKey, error) {
	d := &DownloadKey{
		UserID:      userID,
		File:        strings.TrimSpace(file),
		Key:         uuid.NewString(),
		IsDeletable: deletable,
		CreatedAt:   time.Now(),
	}
	verr := shared.NewValidationError()
	if d.UserID <= 0 {
		verr.Add("user_id", "Please, specify user")
	}
	if d.File == "" {
		verr.Add("file", "Please, specify file")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return d, nil
}

// OwnedBy reports whether userID may use the key
func (d *DownloadKey) OwnedBy(userID int64) bool {
	return d.UserID == userID
}

// DownloadKeyRepository persists download keys
type DownloadKeyRepository interface {
	Create(ctx context.Context, key *DownloadKey) error
	GetByKey(ctx context.Context, key string) (*DownloadKey, error)
	Delete(ctx context.Context, id int64) error
}
