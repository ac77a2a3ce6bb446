package indicators

import (
	"github.com/shopspring/decimal"

	"github.com/samasastudio/sq-gendash/internal/models"
)

// Aggregate reduces one field of a series for a KPI tile. Missing values
// count as 0. It reports false when there are no rows.
func Aggregate(agg, field string, rows []models.Row) (float64, bool) {
	if len(rows) == 0 {
		return 0, false
	}

	at := func(i int) float64 {
		v, _ := value(rows[i], field)
		return v
	}
	latest := at(len(rows) - 1)

	switch agg {
	case models.AggSum, models.AggAverage:
		total := decimal.Zero
		for i := range rows {
			total = total.Add(decimal.NewFromFloat(at(i)))
		}
		if agg == models.AggAverage {
			total = total.Div(decimal.NewFromInt(int64(len(rows))))
		}
		return total.Round(precision).InexactFloat64(), true
	case models.AggPercentChange:
		base := at(0)
		if base == 0 {
			return 0, true
		}
		return round((latest - base) / base), true
	default:
		return round(latest), true
	}
}
