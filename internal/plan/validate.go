package plan

import (
	"fmt"
	"math"

	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/models"
)

const maxRangeLimit = 500

// Drop records a nested entity the validator filtered out.
type Drop struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report lists everything dropped while validating one plan.
type Report struct {
	Dropped []Drop `json:"dropped,omitempty"`
}

func (r *Report) drop(path, reason string) {
	r.Dropped = append(r.Dropped, Drop{Path: path, Reason: reason})
}

// Validate converts a parsed JSON value into a Plan. Invalid datasets,
// indicators, widgets and layout items are dropped individually; the plan
// itself is rejected with *errs.InvalidPlanError when the title is missing or
// no dataset or widget survives. Layout is not normalized here.
func Validate(v any) (models.Plan, error) {
	p, _, err := ValidateWithReport(v)
	return p, err
}

// ValidateWithReport is Validate plus the list of dropped entities.
func ValidateWithReport(v any) (models.Plan, Report, error) {
	var report Report

	obj, ok := v.(map[string]any)
	if !ok {
		return models.Plan{}, report, errs.NewInvalidPlanError("plan must be an object")
	}
	title, ok := nonEmptyString(obj["title"])
	if !ok {
		return models.Plan{}, report, errs.NewInvalidPlanError("title must be a non-empty string")
	}

	rawDatasets, _ := obj["datasets"].([]any)
	datasets := make([]models.Dataset, 0, len(rawDatasets))
	for i, raw := range rawDatasets {
		path := fmt.Sprintf("datasets[%d]", i)
		ds, reason := parseDataset(raw, path, &report)
		if reason != "" {
			report.drop(path, reason)
			continue
		}
		datasets = append(datasets, ds)
	}

	rawWidgets, _ := obj["widgets"].([]any)
	widgets := make([]models.Widget, 0, len(rawWidgets))
	for i, raw := range rawWidgets {
		w, reason := parseWidget(raw)
		if reason != "" {
			report.drop(fmt.Sprintf("widgets[%d]", i), reason)
			continue
		}
		widgets = append(widgets, w)
	}

	rawLayout, _ := obj["layout"].([]any)
	layout := make([]models.LayoutItem, 0, len(rawLayout))
	for i, raw := range rawLayout {
		item, reason := parseLayoutItem(raw)
		if reason != "" {
			report.drop(fmt.Sprintf("layout[%d]", i), reason)
			continue
		}
		layout = append(layout, item)
	}

	var issues []string
	if len(datasets) == 0 {
		issues = append(issues, "no valid datasets")
	}
	if len(widgets) == 0 {
		issues = append(issues, "no valid widgets")
	}
	if len(issues) > 0 {
		return models.Plan{}, report, errs.NewInvalidPlanError(issues...)
	}

	description, _ := obj["description"].(string)
	return models.Plan{
		Title:       title,
		Description: description,
		Datasets:    datasets,
		Widgets:     widgets,
		Layout:      layout,
	}, report, nil
}

// ValidateDataset applies the dataset rules to a single value.
func ValidateDataset(v any) (models.Dataset, error) {
	var report Report
	ds, reason := parseDataset(v, "dataset", &report)
	if reason != "" {
		return models.Dataset{}, errs.NewValidationError("invalid dataset: " + reason)
	}
	return ds, nil
}

func parseDataset(v any, path string, report *Report) (models.Dataset, string) {
	obj, ok := v.(map[string]any)
	if !ok {
		return models.Dataset{}, "not an object"
	}
	id, ok := nonEmptyString(obj["id"])
	if !ok {
		return models.Dataset{}, "id must be a non-empty string"
	}
	if obj["source"] != models.SourceAlphaVantage {
		return models.Dataset{}, "unsupported source"
	}
	function, _ := obj["function"].(string)
	if !isDatasetFunction(function) {
		return models.Dataset{}, "unsupported function"
	}
	symbol, ok := nonEmptyString(obj["symbol"])
	if !ok {
		return models.Dataset{}, "symbol must be a non-empty string"
	}

	rawIndicators, _ := obj["indicators"].([]any)
	indicators := make([]models.Indicator, 0, len(rawIndicators))
	for i, raw := range rawIndicators {
		ind, ok := parseIndicator(raw)
		if !ok {
			report.drop(fmt.Sprintf("%s.indicators[%d]", path, i), "unrecognized indicator")
			continue
		}
		indicators = append(indicators, ind)
	}

	return models.Dataset{
		ID:         id,
		Source:     models.SourceAlphaVantage,
		Function:   function,
		Symbol:     symbol,
		Range:      parseRange(obj["range"]),
		Indicators: indicators,
	}, ""
}

// parseRange keeps whichever bounds are well formed and returns nil when
// none are.
func parseRange(v any) *models.Range {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	var r models.Range
	r.From, _ = nonEmptyString(obj["from"])
	r.To, _ = nonEmptyString(obj["to"])
	if limit, ok := asInt(obj["limit"]); ok && limit > 0 && limit <= maxRangeLimit {
		r.Limit = limit
	}
	if r == (models.Range{}) {
		return nil
	}
	return &r
}

func parseIndicator(v any) (models.Indicator, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return models.Indicator{}, false
	}
	typ, _ := obj["type"].(string)
	switch typ {
	case models.IndicatorSMA, models.IndicatorPctChange, models.IndicatorResample:
	default:
		return models.Indicator{}, false
	}

	ind := models.Indicator{Type: typ}
	if period, ok := asInt(obj["period"]); ok && period > 0 {
		ind.Period = period
	}
	ind.SourceField, _ = nonEmptyString(obj["sourceField"])
	ind.Target, _ = nonEmptyString(obj["target"])
	switch window, _ := obj["window"].(string); window {
	case models.WindowDaily, models.WindowWeekly, models.WindowMonthly:
		ind.Window = window
	}
	return ind, true
}

func parseWidget(v any) (models.Widget, string) {
	obj, ok := v.(map[string]any)
	if !ok {
		return models.Widget{}, "not an object"
	}
	typ, _ := obj["type"].(string)
	title, ok := nonEmptyString(obj["title"])
	if !ok {
		return models.Widget{}, "title must be a non-empty string"
	}
	datasetID, ok := nonEmptyString(obj["datasetId"])
	if !ok {
		return models.Widget{}, "datasetId must be a non-empty string"
	}

	switch typ {
	case models.WidgetKPI:
		return parseKPIWidget(title, datasetID, obj)
	case models.WidgetLine, models.WidgetBar, models.WidgetArea:
		return parseSeriesWidget(typ, title, datasetID, obj)
	default:
		return models.Widget{}, fmt.Sprintf("unrecognized widget type %q", typ)
	}
}

func parseKPIWidget(title, datasetID string, obj map[string]any) (models.Widget, string) {
	field, ok := nonEmptyString(obj["field"])
	if !ok {
		return models.Widget{}, "kpi field must be a non-empty string"
	}
	agg, _ := obj["agg"].(string)
	switch agg {
	case models.AggLatest, models.AggAverage, models.AggSum, models.AggPercentChange:
	default:
		return models.Widget{}, "unrecognized kpi agg"
	}
	format, _ := obj["format"].(string)
	switch format {
	case models.FormatCurrency, models.FormatNumber, models.FormatPercent:
	default:
		format = models.FormatNumber
	}
	return models.Widget{
		Type:      models.WidgetKPI,
		Title:     title,
		DatasetID: datasetID,
		Field:     field,
		Agg:       agg,
		Format:    format,
	}, ""
}

func parseSeriesWidget(typ, title, datasetID string, obj map[string]any) (models.Widget, string) {
	x := "time"
	if raw, present := obj["x"]; present {
		s, ok := nonEmptyString(raw)
		if !ok {
			return models.Widget{}, "series x must be a non-empty string"
		}
		x = s
	}

	rawY, _ := obj["y"].([]any)
	y := make([]string, 0, len(rawY))
	for _, entry := range rawY {
		if s, ok := nonEmptyString(entry); ok {
			y = append(y, s)
		}
	}
	if len(y) == 0 {
		return models.Widget{}, "series y has no fields"
	}

	return models.Widget{
		Type:      typ,
		Title:     title,
		DatasetID: datasetID,
		X:         x,
		Y:         y,
	}, ""
}

func parseLayoutItem(v any) (models.LayoutItem, string) {
	obj, ok := v.(map[string]any)
	if !ok {
		return models.LayoutItem{}, "not an object"
	}
	idx, ok1 := asInt(obj["widgetIndex"])
	x, ok2 := asInt(obj["x"])
	y, ok3 := asInt(obj["y"])
	w, ok4 := asInt(obj["w"])
	h, ok5 := asInt(obj["h"])
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return models.LayoutItem{}, "fields must be integers"
	}
	if idx < 0 || x < 0 || y < 0 || w <= 0 || h <= 0 {
		return models.LayoutItem{}, "fields out of range"
	}
	return models.LayoutItem{WidgetIndex: idx, X: x, Y: y, W: w, H: h}, ""
}

func isDatasetFunction(fn string) bool {
	switch fn {
	case models.FunctionDaily, models.FunctionWeekly, models.FunctionMonthly:
		return true
	}
	return false
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

// asInt accepts whole finite numbers as produced by encoding/json.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
