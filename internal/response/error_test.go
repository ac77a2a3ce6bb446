package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not found", err: errs.NewNotFoundError("workspace not found"), wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "forbidden", err: errs.NewForbiddenError("viewer"), wantStatus: http.StatusForbidden, wantCode: "forbidden"},
		{name: "validation", err: errs.NewValidationError("prompt is required"), wantStatus: http.StatusBadRequest, wantCode: "invalid_input"},
		{name: "extraction", err: errs.NewExtractionError("no JSON object found", "", "hi"), wantStatus: http.StatusUnprocessableEntity, wantCode: "extraction_failed"},
		{name: "invalid plan", err: errs.NewInvalidPlanError("no valid datasets"), wantStatus: http.StatusUnprocessableEntity, wantCode: "invalid_plan"},
		{name: "database", err: errs.NewDatabaseError("read", "boom", nil), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
		{name: "transient upstream", err: errs.NewExternalServiceError("vertex", "down", true, nil), wantStatus: http.StatusServiceUnavailable, wantCode: "service_unavailable"},
		{name: "upstream", err: errs.NewExternalServiceError("vertex", "bad", false, nil), wantStatus: http.StatusBadGateway, wantCode: "service_unavailable"},
		{name: "unknown", err: errors.New("surprise"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}

	log := slog.New(logger.NewTestHandler(slog.LevelInfo))
	h := New(log)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(logger.ToContext(req.Context(), log))
			rr := httptest.NewRecorder()

			h.HandleError(rr, req, tt.err)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status %d, want %d", rr.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Fatalf("code %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleErrorInvalidPlanIssues(t *testing.T) {
	h := New(slog.New(logger.NewTestHandler(slog.LevelInfo)))
	rr := httptest.NewRecorder()
	h.HandleError(rr, httptest.NewRequest(http.MethodPost, "/plans", nil), errs.NewInvalidPlanError("no valid datasets", "no valid widgets"))

	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Issues) != 2 {
		t.Fatalf("expected issues in body, got %+v", body)
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	h := New(slog.New(logger.NewTestHandler(slog.LevelInfo)))
	rr := httptest.NewRecorder()
	h.WriteSuccess(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, map[string]string{"id": "g1"})

	var env struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !env.Success || env.Data["id"] != "g1" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}
