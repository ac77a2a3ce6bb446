package models

// Dataset result statuses.
const (
	DatasetStatusSuccess = "success"
	DatasetStatusError   = "error"
)

// Row is one point of a time series.
type Row struct {
	Time   string             `firestore:"time" json:"time"`
	Values map[string]float64 `firestore:"values" json:"values"`
}

type DatasetMeta struct {
	Symbol        string `firestore:"symbol" json:"symbol"`
	LastRefreshed string `firestore:"lastRefreshed" json:"lastRefreshed"`
}

// DatasetResult is the outcome of loading one dataset. A failed load is a
// result with Status "error", never a returned error.
type DatasetResult struct {
	DatasetID string             `firestore:"datasetId" json:"datasetId"`
	Status    string             `firestore:"status" json:"status"`
	Message   string             `firestore:"message,omitempty" json:"message,omitempty"`
	Detail    string             `firestore:"detail,omitempty" json:"detail,omitempty"`
	Note      string             `firestore:"note,omitempty" json:"note,omitempty"`
	Cached    bool               `firestore:"cached" json:"cached"`
	Meta      DatasetMeta        `firestore:"meta" json:"meta"`
	Rows      []Row              `firestore:"rows" json:"rows"`
	KPIs      map[string]float64 `firestore:"kpis,omitempty" json:"kpis,omitempty"`
}

func (r DatasetResult) OK() bool {
	return r.Status == DatasetStatusSuccess
}
