package models

// Dataset sources.
const (
	SourceAlphaVantage = "alphaVantage"
)

// Time-series functions supported by the market data source.
const (
	FunctionDaily   = "TIME_SERIES_DAILY"
	FunctionWeekly  = "TIME_SERIES_WEEKLY"
	FunctionMonthly = "TIME_SERIES_MONTHLY"
)

// Indicator types.
const (
	IndicatorSMA       = "SMA"
	IndicatorPctChange = "PCT_CHANGE"
	IndicatorResample  = "RESAMPLE"
)

// Resample windows (reserved).
const (
	WindowDaily   = "daily"
	WindowWeekly  = "weekly"
	WindowMonthly = "monthly"
)

// Widget types.
const (
	WidgetKPI  = "kpi"
	WidgetLine = "line"
	WidgetBar  = "bar"
	WidgetArea = "area"
)

// KPI aggregations.
const (
	AggLatest        = "latest"
	AggAverage       = "average"
	AggSum           = "sum"
	AggPercentChange = "percentChange"
)

// KPI display formats.
const (
	FormatCurrency = "currency"
	FormatNumber   = "number"
	FormatPercent  = "percent"
)

// Plan is the canonical, validated description of a dashboard.
type Plan struct {
	Title       string       `firestore:"title" json:"title"`
	Description string       `firestore:"description" json:"description"`
	Datasets    []Dataset    `firestore:"datasets" json:"datasets"`
	Widgets     []Widget     `firestore:"widgets" json:"widgets"`
	Layout      []LayoutItem `firestore:"layout" json:"layout"`
}

// Dataset identifies one time series to fetch.
type Dataset struct {
	ID         string      `firestore:"id" json:"id"`
	Source     string      `firestore:"source" json:"source"`
	Function   string      `firestore:"function" json:"function"`
	Symbol     string      `firestore:"symbol" json:"symbol"`
	Range      *Range      `firestore:"range,omitempty" json:"range,omitempty"`
	Indicators []Indicator `firestore:"indicators" json:"indicators"`
}

// Range bounds a dataset. From and To compare lexicographically against row times.
type Range struct {
	From  string `firestore:"from,omitempty" json:"from,omitempty"`
	To    string `firestore:"to,omitempty" json:"to,omitempty"`
	Limit int    `firestore:"limit,omitempty" json:"limit,omitempty"`
}

// Indicator describes a derived column. Zero values mean "not set".
type Indicator struct {
	Type        string `firestore:"type" json:"type"`
	Period      int    `firestore:"period,omitempty" json:"period,omitempty"`
	SourceField string `firestore:"sourceField,omitempty" json:"sourceField,omitempty"`
	Target      string `firestore:"target,omitempty" json:"target,omitempty"`
	Window      string `firestore:"window,omitempty" json:"window,omitempty"`
}

// Widget is keyed on Type. KPI widgets use Field, Agg and Format;
// series widgets (line, bar, area) use X and Y.
type Widget struct {
	Type      string `firestore:"type" json:"type"`
	Title     string `firestore:"title" json:"title"`
	DatasetID string `firestore:"datasetId" json:"datasetId"`

	Field  string `firestore:"field,omitempty" json:"field,omitempty"`
	Agg    string `firestore:"agg,omitempty" json:"agg,omitempty"`
	Format string `firestore:"format,omitempty" json:"format,omitempty"`

	X string   `firestore:"x,omitempty" json:"x,omitempty"`
	Y []string `firestore:"y,omitempty" json:"y,omitempty"`
}

func (w Widget) IsKPI() bool {
	return w.Type == WidgetKPI
}

// LayoutItem places a widget on the 12-column grid.
type LayoutItem struct {
	WidgetIndex int `firestore:"widgetIndex" json:"widgetIndex"`
	X           int `firestore:"x" json:"x"`
	Y           int `firestore:"y" json:"y"`
	W           int `firestore:"w" json:"w"`
	H           int `firestore:"h" json:"h"`
}
