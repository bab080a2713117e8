package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Aggregates are the derived customer values recomputed from its products.
type Aggregates struct {
	MonthValue      decimal.Decimal
	ThreatenedValue decimal.Decimal
}

// ComputeAggregates sums month values over active rows. A row is threatened
// when the number of calendar days between its last delivery and today is
// strictly greater than its outlier; rows missing either value never are.
func ComputeAggregates(rows []CustomerProduct, today time.Time) Aggregates {
	agg := Aggregates{MonthValue: decimal.Zero, ThreatenedValue: decimal.Zero}
	day := truncateDay(today)
	for i := range rows {
		row := &rows[i]
		if !row.Active {
			continue
		}
		agg.MonthValue = agg.MonthValue.Add(row.MonthValue)
		if row.LastDelivered == nil || row.Outlier == nil {
			continue
		}
		if DaysBetween(truncateDay(row.LastDelivered.In(today.Location())), day) > *row.Outlier {
			agg.ThreatenedValue = agg.ThreatenedValue.Add(row.MonthValue)
		}
	}
	return agg
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
