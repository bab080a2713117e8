package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestComputeAggregates(t *testing.T) {
	today := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	tenDaysAgo := today.AddDate(0, 0, -10)
	twoDaysAgo := today.AddDate(0, 0, -2)
	five := 5

	t.Run("sums active month values", func(t *testing.T) {
		rows := []CustomerProduct{
			{Active: true, MonthValue: dec(10)},
			{Active: true, MonthValue: dec(20)},
		}
		agg := ComputeAggregates(rows, today)
		assert.True(t, agg.MonthValue.Equal(dec(30)), agg.MonthValue.String())
		assert.True(t, agg.ThreatenedValue.IsZero())
	})

	t.Run("deactivated rows drop out", func(t *testing.T) {
		rows := []CustomerProduct{
			{Active: true, MonthValue: dec(10)},
			{Active: false, MonthValue: dec(20)},
		}
		agg := ComputeAggregates(rows, today)
		assert.True(t, agg.MonthValue.Equal(dec(10)))
	})

	t.Run("threatened when days since delivery exceed outlier", func(t *testing.T) {
		rows := []CustomerProduct{
			{Active: true, MonthValue: dec(10), LastDelivered: &tenDaysAgo, Outlier: &five},
			{Active: true, MonthValue: dec(20), LastDelivered: &twoDaysAgo, Outlier: &five},
			{Active: true, MonthValue: dec(40), LastDelivered: &tenDaysAgo},
		}
		agg := ComputeAggregates(rows, today)
		assert.True(t, agg.MonthValue.Equal(dec(70)))
		assert.True(t, agg.ThreatenedValue.Equal(dec(10)))
	})

	t.Run("boundary day is not threatened", func(t *testing.T) {
		fiveDaysAgo := today.AddDate(0, 0, -5)
		rows := []CustomerProduct{{Active: true, MonthValue: dec(10), LastDelivered: &fiveDaysAgo, Outlier: &five}}
		agg := ComputeAggregates(rows, today)
		assert.True(t, agg.ThreatenedValue.IsZero())
	})

	t.Run("is idempotent", func(t *testing.T) {
		rows := []CustomerProduct{{Active: true, MonthValue: dec(10), LastDelivered: &tenDaysAgo, Outlier: &five}}
		first := ComputeAggregates(rows, today)
		second := ComputeAggregates(rows, today)
		assert.True(t, first.MonthValue.Equal(second.MonthValue))
		assert.True(t, first.ThreatenedValue.Equal(second.ThreatenedValue))
	})

	t.Run("empty input yields zeros", func(t *testing.T) {
		agg := ComputeAggregates(nil, today)
		assert.True(t, agg.MonthValue.IsZero())
		assert.True(t, agg.ThreatenedValue.IsZero())
	})
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 2, 28, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 3, 1, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysBetween(a, b))
	assert.Equal(t, -2, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}
