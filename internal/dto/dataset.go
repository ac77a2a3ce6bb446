package dto

import (
	"encoding/json"

	"github.com/samasastudio/sq-gendash/internal/models"
)

type FetchDatasetRequest struct {
	Dataset json.RawMessage `json:"dataset"`
}

type LoadDatasetsRequest struct {
	GenerationID string `json:"generationId"`
}

type LoadDatasetsResponse struct {
	GenerationID string                          `json:"generationId"`
	Datasets     map[string]models.DatasetResult `json:"datasets"`
	Notes        []string                        `json:"notes"`
	// Stale is set when a newer generation replaced the workspace while
	// loading; the results were not persisted.
	Stale bool `json:"stale"`
}
