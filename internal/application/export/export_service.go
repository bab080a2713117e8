// Package export renders list views to spreadsheets stored for later download.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/export"
	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportPageSize is the batch size used to read every matching row; the
// request's own pagination is ignored
const ExportPageSize = shared.MaxLimit

// ObjectStorage stores generated files
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
}

// DownloadResponse points at a stored export
type DownloadResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService exports supplier views and serves them through download keys
type ExportService struct {
	customerRepo  partner.CustomerRepository
	keyRepo       export.DownloadKeyRepository
	storage       ObjectStorage
	presignExpiry time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(
	customerRepo partner.CustomerRepository,
	keyRepo export.DownloadKeyRepository,
	storage ObjectStorage,
	presignExpiry time.Duration,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		customerRepo:  customerRepo,
		keyRepo:       keyRepo,
		storage:       storage,
		presignExpiry: presignExpiry,
		logger:        logger,
		now:           time.Now,
	}
}

// ExportCustomers writes the actor's managed customers matching params to a
// workbook and returns a download key for it
func (s *ExportService) ExportCustomers(ctx context.Context, actor access.Actor, params shared.ListParams) (*DownloadResponse, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}
	customers, err := s.allCustomers(ctx, actor.UserID, params)
	if err != nil {
		return nil, err
	}

	data, err := renderCustomers(customers)
	if err != nil {
		return nil, fmt.Errorf("render customers workbook: %w", err)
	}

	file := fmt.Sprintf("exports/%d/customers-%s-%s.xlsx", actor.UserID, s.now().UTC().Format("20060102-150405"), uuid.NewString()[:8])
	if err := s.storage.Put(ctx, file, data, xlsxContentType); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	key, err := export.NewDownloadKey(actor.UserID, file, true)
	if err != nil {
		return nil, err
	}
	if err := s.keyRepo.Create(ctx, key); err != nil {
		if delErr := s.storage.Delete(ctx, file); delErr != nil {
			s.logger.Warn("Failed to remove orphaned export", zap.String("file", file), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Customers exported",
		zap.Int64("user_id", actor.UserID),
		zap.Int("rows", len(customers)))
	return s.presign(ctx, key)
}

// allCustomers reads every matching customer in ExportPageSize batches
func (s *ExportService) allCustomers(ctx context.Context, actorID int64, params shared.ListParams) ([]partner.CustomerView, error) {
	params.Limit = ExportPageSize
	var all []partner.CustomerView
	for params.Offset = 0; ; params.Offset += ExportPageSize {
		page, err := s.customerRepo.ListForSupplier(ctx, actorID, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < ExportPageSize {
			return all, nil
		}
	}
}

// Download issues a fresh URL for a key owned by the actor. Keys of other
// users are reported as missing.
func (s *ExportService) Download(ctx context.Context, actor access.Actor, key string) (*DownloadResponse, error) {
	dk, err := s.owned(ctx, actor, key)
	if err != nil {
		return nil, err
	}
	return s.presign(ctx, dk)
}

// Delete removes a deletable export and its key
func (s *ExportService) Delete(ctx context.Context, actor access.Actor, key string) error {
	dk, err := s.owned(ctx, actor, key)
	if err != nil {
		return err
	}
	if !dk.IsDeletable {
		return shared.ErrForbidden
	}
	if err := s.storage.Delete(ctx, dk.File); err != nil {
		return fmt.Errorf("delete export: %w", err)
	}
	return s.keyRepo.Delete(ctx, dk.ID)
}

func (s *ExportService) owned(ctx context.Context, actor access.Actor, key string) (*export.DownloadKey, error) {
	dk, err := s.keyRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !dk.OwnedBy(actor.UserID) {
		return nil, shared.ErrDownloadNotFound
	}
	return dk, nil
}

func (s *ExportService) presign(ctx context.Context, dk *export.DownloadKey) (*DownloadResponse, error) {
	url, expiresAt, err := s.storage.PresignGet(ctx, dk.File, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}
	return &DownloadResponse{Key: dk.Key, URL: url, ExpiresAt: expiresAt}, nil
}
