package plan

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/samasastudio/sq-gendash/internal/models"
)

//go:embed sample_plan.json
var samplePlanJSON []byte

// SamplePlan returns a fresh copy of the bundled fallback plan.
func SamplePlan() (models.Plan, error) {
	var v any
	if err := json.Unmarshal(samplePlanJSON, &v); err != nil {
		return models.Plan{}, fmt.Errorf("decode sample plan: %w", err)
	}
	p, err := Validate(v)
	if err != nil {
		return models.Plan{}, fmt.Errorf("sample plan: %w", err)
	}
	return NormalizeLayout(p), nil
}
