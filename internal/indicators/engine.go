package indicators

import (
	"fmt"
	"maps"
	"math"

	"github.com/shopspring/decimal"

	"github.com/samasastudio/sq-gendash/internal/models"
)

const (
	precision = 4

	defaultSourceField = "close"
	defaultSMAPeriod   = 5
	defaultPctPeriod   = 1
)

// Apply returns a copy of rows with one column added per recognized
// indicator. Indicators run in order and see earlier indicators' columns.
// Unrecognized types, RESAMPLE included, leave the rows unchanged.
func Apply(rows []models.Row, specs []models.Indicator) []models.Row {
	out := make([]models.Row, len(rows))
	for i, r := range rows {
		values := make(map[string]float64, len(r.Values)+len(specs))
		maps.Copy(values, r.Values)
		out[i] = models.Row{Time: r.Time, Values: values}
	}

	for _, spec := range specs {
		switch spec.Type {
		case models.IndicatorSMA:
			applySMA(out, spec)
		case models.IndicatorPctChange:
			applyPctChange(out, spec)
		}
	}
	return out
}

// TargetField is the column an indicator writes.
func TargetField(spec models.Indicator) string {
	if spec.Target != "" {
		return spec.Target
	}
	switch spec.Type {
	case models.IndicatorSMA:
		return fmt.Sprintf("sma_%d", period(spec, defaultSMAPeriod))
	case models.IndicatorPctChange:
		return fmt.Sprintf("pct_change_%d", period(spec, defaultPctPeriod))
	default:
		return ""
	}
}

func applySMA(rows []models.Row, spec models.Indicator) {
	src := sourceField(spec)
	target := TargetField(spec)
	// the window never holds more values than there are rows
	window := NewNumericWindow(min(period(spec, defaultSMAPeriod), len(rows)))
	for _, r := range rows {
		v, ok := r.Values[src]
		window.Push(v, ok)
		r.Values[target] = window.Mean()
	}
}

func applyPctChange(rows []models.Row, spec models.Indicator) {
	src := sourceField(spec)
	target := TargetField(spec)
	p := period(spec, defaultPctPeriod)
	for i, r := range rows {
		current, ok := value(r, src)
		base, baseOK := value(rows[max(i-p, 0)], src)
		if !ok || !baseOK || base == 0 {
			r.Values[target] = 0
			continue
		}
		r.Values[target] = round((current - base) / base)
	}
}

func sourceField(spec models.Indicator) string {
	if spec.SourceField != "" {
		return spec.SourceField
	}
	return defaultSourceField
}

func period(spec models.Indicator, fallback int) int {
	if spec.Period > 0 {
		return spec.Period
	}
	return fallback
}

func value(r models.Row, field string) (float64, bool) {
	v, ok := r.Values[field]
	return v, ok && finite(v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(precision).InexactFloat64()
}
