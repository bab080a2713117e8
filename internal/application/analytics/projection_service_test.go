package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eightysix/analytics/internal/domain/catalog"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProjectionRepository is a mock implementation of ProjectionRepository.
// When rows is set, the compute callback is run against it.
type MockProjectionRepository struct {
	mock.Mock
	rows []catalog.CustomerProduct
}

func (m *MockProjectionRepository) ApplyCustomerAggregates(
	ctx context.Context,
	customerID int64,
	modified time.Time,
	compute func([]catalog.CustomerProduct) catalog.Aggregates,
) (catalog.Aggregates, error) {
	args := m.Called(ctx, customerID, modified)
	if err := args.Error(0); err != nil {
		return catalog.Aggregates{}, err
	}
	return compute(m.rows), nil
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveRecompute(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

type recordingLocker struct {
	keys     []string
	released int
	err      error
}

func (l *recordingLocker) Lock(_ context.Context, key string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func() { l.released++ }, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockProjectionRepository, cfg Config, opts ...Option) *ProjectionService {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewProjectionService(repo, cfg, nil, opts...)
}

func TestRecomputeCustomerAggregates(t *testing.T) {
	t.Run("computes with the injected clock", func(t *testing.T) {
		outlier := 10
		stale := fixedNow.AddDate(0, 0, -11)
		repo := &MockProjectionRepository{rows: []catalog.CustomerProduct{
			{MonthValue: decimal.NewFromInt(10), Active: true},
			{MonthValue: decimal.NewFromInt(20), Active: true, LastDelivered: &stale, Outlier: &outlier},
		}}
		repo.On("ApplyCustomerAggregates", mock.Anything, int64(7), fixedNow).Return(nil).Once()
		observer := &recordingObserver{}
		locker := &recordingLocker{}

		svc := newTestService(repo, Config{}, WithObserver(observer), WithLocker(locker))
		require.NoError(t, svc.RecomputeCustomerAggregates(context.Background(), 7))

		repo.AssertExpectations(t)
		assert.Equal(t, []string{OutcomeSuccess}, observer.outcomes)
		assert.Equal(t, []string{"projection:customer:7"}, locker.keys)
		assert.Equal(t, 1, locker.released)
	})

	t.Run("default clock stamps in UTC", func(t *testing.T) {
		repo := &MockProjectionRepository{}
		inUTC := mock.MatchedBy(func(ts time.Time) bool { return ts.Location() == time.UTC })
		repo.On("ApplyCustomerAggregates", mock.Anything, int64(7), inUTC).Return(nil).Once()

		svc := NewProjectionService(repo, Config{}, nil)
		require.NoError(t, svc.RecomputeCustomerAggregates(context.Background(), 7))
		repo.AssertExpectations(t)
	})

	t.Run("missing customer is not retried", func(t *testing.T) {
		repo := &MockProjectionRepository{}
		repo.On("ApplyCustomerAggregates", mock.Anything, int64(7), fixedNow).Return(shared.ErrCustomerNotFound).Once()
		observer := &recordingObserver{}

		svc := newTestService(repo, Config{Retries: 3, RetryDelay: time.Millisecond}, WithObserver(observer))
		err := svc.RecomputeCustomerAggregates(context.Background(), 7)

		assert.ErrorIs(t, err, shared.ErrCustomerNotFound)
		repo.AssertNumberOfCalls(t, "ApplyCustomerAggregates", 1)
		assert.Equal(t, []string{OutcomeNotFound}, observer.outcomes)
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		repo := &MockProjectionRepository{}
		repo.On("ApplyCustomerAggregates", mock.Anything, int64(7), fixedNow).Return(errors.New("connection reset")).Once()
		repo.On("ApplyCustomerAggregates", mock.Anything, int64(7), fixedNow).Return(nil).Once()

		svc := newTestService(repo, Config{Retries: 2, RetryDelay: time.Millisecond})
		require.NoError(t, svc.RecomputeCustomerAggregates(context.Background(), 7))
		repo.AssertNumberOfCalls(t, "ApplyCustomerAggregates", 2)
	})

	t.Run("gives up after the configured retries", func(t *testing.T) {
		repo := &MockProjectionRepository{}
		repo.On("ApplyCustomerAggregates", mock.Anything, int64(7), fixedNow).Return(errors.New("connection reset"))
		observer := &recordingObserver{}

		svc := newTestService(repo, Config{Retries: 2, RetryDelay: time.Millisecond}, WithObserver(observer))
		err := svc.RecomputeCustomerAggregates(context.Background(), 7)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		repo.AssertNumberOfCalls(t, "ApplyCustomerAggregates", 3)
		assert.Equal(t, []string{OutcomeError}, observer.outcomes)
	})

	t.Run("lock failure surfaces", func(t *testing.T) {
		repo := &MockProjectionRepository{}
		svc := newTestService(repo, Config{}, WithLocker(&recordingLocker{err: errors.New("redis down")}))

		err := svc.RecomputeCustomerAggregates(context.Background(), 7)
		require.Error(t, err)
		repo.AssertNotCalled(t, "ApplyCustomerAggregates", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		repo := &MockProjectionRepository{}
		repo.On("ApplyCustomerAggregates", mock.Anything, int64(7), fixedNow).Return(errors.New("connection reset"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := newTestService(repo, Config{Retries: 5, RetryDelay: time.Hour})
		err := svc.RecomputeCustomerAggregates(ctx, 7)
		assert.ErrorIs(t, err, context.Canceled)
		repo.AssertNumberOfCalls(t, "ApplyCustomerAggregates", 1)
	})
}
