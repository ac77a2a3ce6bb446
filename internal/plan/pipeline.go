package plan

import "github.com/samasastudio/sq-gendash/internal/models"

// Stage is the position of one generation request in the pipeline.
type Stage int

const (
	StageIdle Stage = iota
	StageExtracting
	StageValidating
	StageNormalized
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageExtracting:
		return "extracting"
	case StageValidating:
		return "validating"
	case StageNormalized:
		return "normalized"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Result struct {
	Plan  models.Plan
	Stage Stage
	// FailedAt is the stage that failed when Stage is StageFailed.
	FailedAt Stage
	Report   Report
}

// Run turns raw model text into a canonical plan. Errors are
// *errs.ExtractionError or *errs.InvalidPlanError; substituting a fallback
// plan is left to the caller.
func Run(raw string) (Result, error) {
	res := Result{Stage: StageExtracting}

	v, err := Extract(raw)
	if err != nil {
		res.FailedAt, res.Stage = res.Stage, StageFailed
		return res, err
	}

	res.Stage = StageValidating
	p, report, err := ValidateWithReport(v)
	res.Report = report
	if err != nil {
		res.FailedAt, res.Stage = res.Stage, StageFailed
		return res, err
	}

	res.Plan = NormalizeLayout(p)
	res.Stage = StageNormalized
	return res, nil
}
