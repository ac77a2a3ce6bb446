package plan

import (
	"errors"
	"strings"
	"testing"

	"github.com/samasastudio/sq-gendash/internal/errs"
)

func TestExtractFencedBlockWithProse(t *testing.T) {
	raw := "Sure! Here is your plan:\n```json\n{\"title\": \"Dash\", \"n\": 2}\n```\nLet me know {if} you need more."

	v, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", v)
	}
	if obj["title"] != "Dash" || obj["n"] != float64(2) {
		t.Fatalf("unexpected object: %+v", obj)
	}
}

func TestExtractBareObjectWithProse(t *testing.T) {
	v, err := Extract(`The answer is {"a": [1, 2]} hope that helps`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(map[string]any)["a"]; !ok {
		t.Fatalf("expected key a in %+v", v)
	}
}

func TestExtractRepairsSloppyJSON(t *testing.T) {
	raw := "```\n{'title': 'Dash', “tags”: ['a', 'b',],}\r\n```"

	v, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj := v.(map[string]any)
	if obj["title"] != "Dash" {
		t.Fatalf("unexpected title %v", obj["title"])
	}
	tags, ok := obj["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Fatalf("unexpected tags %v", obj["tags"])
	}
}

func TestExtractNoObject(t *testing.T) {
	for _, raw := range []string{"no json here", "} backwards {", ""} {
		_, err := Extract(raw)
		var extErr *errs.ExtractionError
		if !errors.As(err, &extErr) {
			t.Fatalf("expected ExtractionError for %q, got %v", raw, err)
		}
		if extErr.Message != "no JSON object found" {
			t.Fatalf("unexpected message %q", extErr.Message)
		}
		if extErr.Raw != raw {
			t.Fatalf("expected raw text to be carried")
		}
	}
}

func TestExtractParseFailure(t *testing.T) {
	raw := `{"title": Dash}`
	_, err := Extract(raw)
	var extErr *errs.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if extErr.Message != "JSON parse failed" {
		t.Fatalf("unexpected message %q", extErr.Message)
	}
	if extErr.Detail == "" || !strings.Contains(extErr.Raw, "Dash") {
		t.Fatalf("expected parser detail and raw text, got %+v", extErr)
	}
}
