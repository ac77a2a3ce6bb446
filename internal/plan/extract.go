package plan

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/samasastudio/sq-gendash/internal/errs"
)

var fencedBlock = regexp.MustCompile("(?s)```(?i:json)?(.*?)```")

// Extract locates the JSON object inside raw model output and parses it,
// trying each repair candidate in turn.
func Extract(raw string) (any, error) {
	body := raw
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		body = m[1]
	}

	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < 0 || start >= end {
		return nil, errs.NewExtractionError("no JSON object found", "", raw)
	}

	var lastErr error
	for _, candidate := range RepairCandidates(body[start : end+1]) {
		var v any
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			lastErr = err
			continue
		}
		return v, nil
	}
	return nil, errs.NewExtractionError("JSON parse failed", lastErr.Error(), raw)
}
