package dto

import (
	"time"

	"github.com/samasastudio/sq-gendash/internal/models"
	"github.com/samasastudio/sq-gendash/internal/plan"
)

type GeneratePlanRequest struct {
	Prompt string `json:"prompt"`
}

type GeneratePlanResponse struct {
	GenerationID string        `json:"generationId"`
	Plan         models.Plan   `json:"plan"`
	Provider     string        `json:"provider"`
	Fallback     bool          `json:"fallback"`
	Note         string        `json:"note,omitempty"`
	Dropped      []plan.Drop   `json:"dropped,omitempty"`
	Presets      []plan.Preset `json:"presets"`
}

type GenerationSummary struct {
	GenerationID string    `json:"generationId"`
	Prompt       string    `json:"prompt"`
	Title        string    `json:"title"`
	Provider     string    `json:"provider"`
	Fallback     bool      `json:"fallback"`
	CreatedAt    time.Time `json:"createdAt"`
}
