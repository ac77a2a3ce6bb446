package services

import "strings"

const planSystemPrompt = "You are a strict dashboard planning assistant. Return only one JSON object and no prose. " +
	`The object has "title", optional "description", "datasets", "widgets" and optional "layout". ` +
	`Each dataset has "id", "source" ("alphaVantage"), "function" (TIME_SERIES_DAILY, TIME_SERIES_WEEKLY or TIME_SERIES_MONTHLY), "symbol", ` +
	`optional "range" {"from","to","limit"} and optional "indicators" [{"type":"SMA"|"PCT_CHANGE"|"RESAMPLE","period","sourceField","target","window"}]. ` +
	`Widgets are either {"type":"kpi","title","datasetId","field","agg":"latest"|"average"|"sum"|"percentChange","format":"currency"|"number"|"percent"} ` +
	`or {"type":"line"|"bar"|"area","title","datasetId","x":"time","y":[fields]}. ` +
	"Row fields are open, high, low, close, volume plus indicator targets such as sma_20 or pct_change_1."

func planUserPrompt(prompt string) string {
	return strings.Join([]string{
		"Plan a financial markets dashboard.",
		"Use live Alpha Vantage data.",
		"Support KPI tiles and line, area or bar charts.",
		"Keep range.limit at or below 100 unless the prompt asks for long history.",
		`User prompt: "` + prompt + `"`,
	}, "\n")
}
