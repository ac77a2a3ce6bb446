package market

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samasastudio/sq-gendash/internal/indicators"
	"github.com/samasastudio/sq-gendash/internal/models"
)

// Alpha Vantage returns at most this many points unless outputsize=full.
const compactPoints = 100

var (
	ErrMissingSeries = errors.New("response missing time series data")
	ErrNoRows        = errors.New("dataset returned no rows after parsing")
)

var fieldNames = []struct {
	field   string
	aliases []string
}{
	{field: "open", aliases: []string{"1. open", "open", "Open"}},
	{field: "high", aliases: []string{"2. high", "high", "High"}},
	{field: "low", aliases: []string{"3. low", "low", "Low"}},
	{field: "close", aliases: []string{"4. close", "close", "Close"}},
	{field: "volume", aliases: []string{"5. volume", "volume", "Volume"}},
}

// OutputSize picks the Alpha Vantage output size needed to cover the range.
func OutputSize(ds models.Dataset) string {
	if ds.Range != nil && (ds.Range.Limit > compactPoints || ds.Range.From != "") {
		return "full"
	}
	return "compact"
}

// Transform converts an Alpha Vantage payload into ascending rows, applies
// the dataset range and then its indicators.
func Transform(ds models.Dataset, payload map[string]any) ([]models.Row, models.DatasetMeta, error) {
	meta := parseMeta(ds, payload)

	series := timeSeries(payload)
	if series == nil {
		return nil, meta, ErrMissingSeries
	}

	rows := make([]models.Row, 0, len(series))
	for ts, raw := range series {
		record, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if row, ok := parseRow(ts, record); ok {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Time < rows[j].Time })

	rows = applyRange(rows, ds.Range)
	if len(rows) == 0 {
		return nil, meta, ErrNoRows
	}
	if meta.LastRefreshed == "" {
		meta.LastRefreshed = rows[len(rows)-1].Time
	}

	return indicators.Apply(rows, ds.Indicators), meta, nil
}

func timeSeries(payload map[string]any) map[string]any {
	for key, v := range payload {
		if strings.Contains(strings.ToLower(key), "time series") {
			series, _ := v.(map[string]any)
			return series
		}
	}
	return nil
}

func parseMeta(ds models.Dataset, payload map[string]any) models.DatasetMeta {
	meta := models.DatasetMeta{Symbol: ds.Symbol}
	raw, ok := payload["Meta Data"].(map[string]any)
	if !ok {
		return meta
	}
	for key, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		lower := strings.ToLower(key)
		switch {
		case strings.HasSuffix(lower, "symbol"):
			meta.Symbol = s
		case strings.HasSuffix(lower, "last refreshed"):
			meta.LastRefreshed = s
		}
	}
	return meta
}

// parseRow requires open, high, low and close; volume defaults to 0.
func parseRow(ts string, record map[string]any) (models.Row, bool) {
	values := make(map[string]float64, len(fieldNames))
	for _, f := range fieldNames {
		v, ok := resolve(record, f.aliases)
		if !ok {
			if f.field == "volume" {
				values[f.field] = 0
				continue
			}
			return models.Row{}, false
		}
		values[f.field] = v
	}
	return models.Row{Time: ts, Values: values}, true
}

func resolve(record map[string]any, aliases []string) (float64, bool) {
	for _, alias := range aliases {
		if v, ok := parseNumber(record[alias]); ok {
			return v, true
		}
	}
	return 0, false
}

func parseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// applyRange keeps rows within [From, To] and then the last Limit rows.
func applyRange(rows []models.Row, r *models.Range) []models.Row {
	if r == nil {
		return rows
	}
	filtered := rows[:0:0]
	for _, row := range rows {
		if r.From != "" && row.Time < r.From {
			continue
		}
		if r.To != "" && row.Time > endOf(r.To) {
			continue
		}
		filtered = append(filtered, row)
	}
	if r.Limit > 0 && len(filtered) > r.Limit {
		filtered = filtered[len(filtered)-r.Limit:]
	}
	return filtered
}

// endOf lets a date bound include intraday timestamps on that date.
func endOf(bound string) string {
	if len(bound) == len("2006-01-02") {
		return bound + "\xff"
	}
	return bound
}
