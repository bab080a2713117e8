// Package analytics keeps the derived customer aggregates in step with the
// customer product rows they are computed from.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/eightysix/analytics/internal/domain/shared"
	"go.uber.org/zap"
)

// Locker serializes work on a key across processes.
type Locker interface {
	// Lock blocks until the key is held or ctx ends. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// NoopLocker never blocks. The row lock taken by the repository still
// serializes writers on postgres.
type NoopLocker struct{}

// Lock implements Locker
func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// Observer receives one call per recompute.
type Observer interface {
	ObserveRecompute(outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveRecompute(string, time.Duration) {}

// Recompute outcomes reported to the Observer
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Config controls retries of a failed recompute
type Config struct {
	Retries    int
	RetryDelay time.Duration
}

// Option configures a ProjectionService
type Option func(*ProjectionService)

// UTCNow is the default clock. Stale-delivery windows are measured in UTC.
func UTCNow() time.Time { return time.Now().UTC() }

// WithClock overrides the default UTC clock
func WithClock(now func() time.Time) Option {
	return func(s *ProjectionService) { s.now = now }
}

// WithLocker sets the cross-process lock
func WithLocker(l Locker) Option {
	return func(s *ProjectionService) { s.locker = l }
}

// WithObserver sets the metrics sink
func WithObserver(o Observer) Option {
	return func(s *ProjectionService) { s.observer = o }
}

// ProjectionService recomputes Customer.MonthValue and Customer.ThreatenedValue
type ProjectionService struct {
	repo     catalog.ProjectionRepository
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
	locker   Locker
	observer Observer
}

// NewProjectionService creates a new ProjectionService
func NewProjectionService(repo catalog.ProjectionRepository, cfg Config, logger *zap.Logger, opts ...Option) *ProjectionService {
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ProjectionService{
		repo:     repo,
		cfg:      cfg,
		logger:   logger,
		now:      UTCNow,
		locker:   NoopLocker{},
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecomputeCustomerAggregates recomputes and stores the aggregates of one
// customer. It is idempotent; callers await it before answering the request.
func (s *ProjectionService) RecomputeCustomerAggregates(ctx context.Context, customerID int64) error {
	start := time.Now()
	agg, err := s.recompute(ctx, customerID)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		s.observer.ObserveRecompute(OutcomeSuccess, elapsed)
		s.logger.Debug("customer aggregates recomputed",
			zap.Int64("customer_id", customerID),
			zap.String("month_value", agg.MonthValue.String()),
			zap.String("threatened_value", agg.ThreatenedValue.String()),
			zap.Duration("elapsed", elapsed),
		)
		return nil
	case errors.Is(err, shared.ErrCustomerNotFound):
		s.observer.ObserveRecompute(OutcomeNotFound, elapsed)
		return err
	default:
		s.observer.ObserveRecompute(OutcomeError, elapsed)
		s.logger.Error("failed to recompute customer aggregates",
			zap.Int64("customer_id", customerID),
			zap.Error(err),
		)
		return fmt.Errorf("recompute customer %d aggregates: %w", customerID, err)
	}
}

func (s *ProjectionService) recompute(ctx context.Context, customerID int64) (catalog.Aggregates, error) {
	unlock, err := s.locker.Lock(ctx, fmt.Sprintf("projection:customer:%d", customerID))
	if err != nil {
		return catalog.Aggregates{}, fmt.Errorf("lock customer %d: %w", customerID, err)
	}
	defer unlock()

	delay := s.cfg.RetryDelay
	var lastErr error
	for attempt := 0; attempt <= s.cfg.Retries; attempt++ {
		if attempt > 0 {
			s.logger.Warn("retrying customer aggregates",
				zap.Int64("customer_id", customerID),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return catalog.Aggregates{}, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		now := s.now()
		agg, err := s.repo.ApplyCustomerAggregates(ctx, customerID, now, func(rows []catalog.CustomerProduct) catalog.Aggregates {
			return catalog.ComputeAggregates(rows, now)
		})
		if err == nil {
			return agg, nil
		}
		if !retryable(err) {
			return catalog.Aggregates{}, err
		}
		lastErr = err
	}
	return catalog.Aggregates{}, lastErr
}

// retryable reports whether err may succeed on a later attempt. Domain errors
// and cancellation are final.
func retryable(err error) bool {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
