package persistence

import (
	"testing"

	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerCodes(views []partner.CustomerView) []string {
	codes := make([]string, len(views))
	for i, v := range views {
		codes[i] = v.Code
	}
	return codes
}

func TestGormCustomerRepository_ListForSupplier(t *testing.T) {
	repo := NewGormCustomerRepository(newSeededDB(t))

	tests := []struct {
		name    string
		actorID int64
		params  shared.ListParams
		want    []string
	}{
		{"own supplier only", fxStaff1, shared.ListParams{}, []string{"ALPHA", "BETA"}},
		{"other supplier", fxStaff2, shared.ListParams{}, []string{"GAMMA"}},
		{"unknown actor", 999, shared.ListParams{}, []string{}},
		{"exact code prefix", fxStaff1, shared.ListParams{Search: map[string]string{"searchCode": "be"}}, []string{"BETA"}},
		{"fuzzy title", fxStaff1, shared.ListParams{Search: map[string]string{"searchTitle": "bakery"}}, []string{"BETA"}},
		{"sorted descending", fxStaff1, shared.ListParams{SortBy: "code", Descending: true}, []string{"BETA", "ALPHA"}},
		{"unknown sort falls back", fxStaff1, shared.ListParams{SortBy: "password"}, []string{"ALPHA", "BETA"}},
		{"paged", fxStaff1, shared.ListParams{Offset: 1, Limit: 1}, []string{"BETA"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := repo.ListForSupplier(testCtx, tt.actorID, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, customerCodes(views))

			count, err := repo.CountForSupplier(testCtx, tt.actorID, shared.ListParams{Search: tt.params.Search})
			require.NoError(t, err)
			if tt.params.Offset == 0 && tt.params.Limit == 0 {
				assert.Equal(t, int64(len(views)), count)
			}
		})
	}
}

func TestGormCustomerRepository_ListForSupplier_SubscribedFlag(t *testing.T) {
	repo := NewGormCustomerRepository(newSeededDB(t))

	views, err := repo.ListForSupplier(testCtx, fxStaff1, shared.ListParams{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].Subscribed)
	assert.False(t, views[1].Subscribed)
	assert.Equal(t, "S1", views[0].SupplierCode)
}

func TestGormCustomerRepository_ListForAdmin(t *testing.T) {
	repo := NewGormCustomerRepository(newSeededDB(t))

	views, err := repo.ListForAdmin(testCtx, shared.ListParams{Search: map[string]string{"searchSupplier": "second"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"GAMMA"}, customerCodes(views))

	total, err := repo.CountForAdmin(testCtx, shared.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestGormCustomerRepository_GetByIDForSupplier(t *testing.T) {
	repo := NewGormCustomerRepository(newSeededDB(t))

	tests := []struct {
		name    string
		actorID int64
		id      int64
		wantErr error
	}{
		{"managed and subscribed", fxStaff1, fxAlpha, nil},
		{"managed but not subscribed", fxStaff1, fxBeta, shared.ErrCustomerNotFound},
		{"subscribed but not managed", fxStaff1, fxGamma, shared.ErrCustomerNotFound},
		{"missing customer", fxStaff1, 404, shared.ErrCustomerNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := repo.GetByIDForSupplier(testCtx, tt.actorID, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, c.ID)
		})
	}
}

func TestGormCustomerRepository_CreateAndUpdate(t *testing.T) {
	repo := NewGormCustomerRepository(newSeededDB(t))

	c, err := partner.NewCustomer(fxSupplier1, "DELTA", "Delta Deli", "EUR")
	require.NoError(t, err)
	require.NoError(t, repo.Create(testCtx, c))
	assert.NotZero(t, c.ID)

	t.Run("duplicate code within supplier", func(t *testing.T) {
		dup, err := partner.NewCustomer(fxSupplier1, "DELTA", "Other", "EUR")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(testCtx, dup), shared.ErrUniqueConstraint)
	})

	t.Run("update keeps aggregates", func(t *testing.T) {
		c.Title = "Delta Delicatessen"
		require.NoError(t, repo.Update(testCtx, c))

		got, err := repo.GetByIDForAdmin(testCtx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Delta Delicatessen", got.Title)
		assert.True(t, got.MonthValue.IsZero())
	})

	t.Run("update missing customer", func(t *testing.T) {
		missing := *c
		missing.ID = 404
		assert.ErrorIs(t, repo.Update(testCtx, &missing), shared.ErrCustomerNotFound)
	})
}

func TestGormCustomerUserRepository(t *testing.T) {
	db := newSeededDB(t)
	repo := NewGormCustomerUserRepository(db)
	notes := NewGormNoteRepository(db)

	subscribed := func() []string {
		list, err := repo.ListForSupplier(testCtx, fxStaff1, shared.ListParams{})
		require.NoError(t, err)
		codes := make([]string, len(list))
		for i, c := range list {
			codes[i] = c.Code
		}
		return codes
	}

	assert.Equal(t, []string{"ALPHA", "GAMMA"}, subscribed())

	t.Run("subscribe is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Subscribe(testCtx, fxStaff1, fxBeta))
		require.NoError(t, repo.Subscribe(testCtx, fxStaff1, fxBeta))
		assert.Equal(t, []string{"ALPHA", "BETA", "GAMMA"}, subscribed())

		total, err := repo.CountForSupplier(testCtx, fxStaff1, shared.ListParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("unsubscribe removes from list", func(t *testing.T) {
		require.NoError(t, repo.Unsubscribe(testCtx, fxStaff1, fxBeta))
		require.NoError(t, repo.Unsubscribe(testCtx, fxStaff1, fxBeta))
		assert.Equal(t, []string{"ALPHA", "GAMMA"}, subscribed())
	})

	t.Run("latest note is attached", func(t *testing.T) {
		older := &partner.Note{UserID: fxStaff1, CustomerID: fxAlpha, Text: "first call", Timestamp: fxDay}
		newer := &partner.Note{UserID: fxStaff2, CustomerID: fxAlpha, Text: "follow up", Timestamp: fxDay.AddDate(0, 0, 1)}
		require.NoError(t, notes.Create(testCtx, older))
		require.NoError(t, notes.Create(testCtx, newer))

		list, err := repo.ListForSupplier(testCtx, fxStaff1, shared.ListParams{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.NotNil(t, list[0].LastNote)
		assert.Equal(t, "follow up", *list[0].LastNote)
		assert.Equal(t, "Bob Staff", *list[0].LastNoteBy)
		assert.Nil(t, list[1].LastNote)
	})
}
