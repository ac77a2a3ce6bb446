package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samasastudio/sq-gendash/internal/dto"
	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/middleware"
	"github.com/samasastudio/sq-gendash/internal/plan"
)

type stubPlanService struct {
	called  bool
	uid     string
	prompt  string
	limit   int
	resp    dto.GeneratePlanResponse
	history []dto.GenerationSummary
	err     error
}

func (s *stubPlanService) Generate(ctx context.Context, uid, prompt string) (dto.GeneratePlanResponse, error) {
	s.called = true
	s.uid = uid
	s.prompt = prompt
	return s.resp, s.err
}

func (s *stubPlanService) Presets() ([]plan.Preset, error) {
	return []plan.Preset{{ID: "p1", Label: "Apple", Prompt: "apple"}}, s.err
}

func (s *stubPlanService) History(ctx context.Context, uid string, limit int) ([]dto.GenerationSummary, error) {
	s.called = true
	s.limit = limit
	return s.history, s.err
}

func TestGeneratePlanHandlerSuccess(t *testing.T) {
	svc := &stubPlanService{resp: dto.GeneratePlanResponse{GenerationID: "g1"}}
	resp := &stubResponseHandler{}
	h := NewPlanHandlers(&Deps{ResponseHandler: resp, PlanSvc: svc})

	req := newRequest(http.MethodPost, "/plans", strings.NewReader(`{"prompt":"apple ytd"}`), middleware.RoleBuilder)
	rr := httptest.NewRecorder()

	h.Generate(rr, req)

	if !svc.called || svc.uid != "uid-123" || svc.prompt != "apple ytd" {
		t.Fatalf("service called with unexpected args: %+v", svc)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("WriteSuccess not called with status 200")
	}
}

func TestGeneratePlanHandlerInvalidJSON(t *testing.T) {
	svc := &stubPlanService{}
	resp := &stubResponseHandler{}
	h := NewPlanHandlers(&Deps{ResponseHandler: resp, PlanSvc: svc})

	req := newRequest(http.MethodPost, "/plans", strings.NewReader("not-json"), middleware.RoleBuilder)
	h.Generate(httptest.NewRecorder(), req)

	if svc.called {
		t.Fatalf("service should not be called on invalid JSON")
	}
	var valErr *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &valErr) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestGeneratePlanHandlerServiceError(t *testing.T) {
	svc := &stubPlanService{err: errs.NewExternalServiceError("vertex", "down", true, nil)}
	resp := &stubResponseHandler{}
	h := NewPlanHandlers(&Deps{ResponseHandler: resp, PlanSvc: svc})

	req := newRequest(http.MethodPost, "/plans", strings.NewReader(`{"prompt":"x"}`), middleware.RoleBuilder)
	h.Generate(httptest.NewRecorder(), req)

	if !resp.handleErrorCalled || resp.writeSuccessCalled {
		t.Fatalf("expected HandleError only")
	}
}

func TestPlanRoutesRejectViewerGenerate(t *testing.T) {
	svc := &stubPlanService{}
	resp := &stubResponseHandler{}
	routes := NewPlanHandlers(&Deps{ResponseHandler: resp, PlanSvc: svc}).PlanRoutes()

	req := newRequest(http.MethodPost, "/", strings.NewReader(`{"prompt":"x"}`), middleware.RoleViewer)
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden || svc.called {
		t.Fatalf("viewer generate: status %d called=%v", rr.Code, svc.called)
	}

	req = newRequest(http.MethodGet, "/presets", nil, middleware.RoleViewer)
	rr = httptest.NewRecorder()
	routes.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !resp.writeSuccessCalled {
		t.Fatalf("viewer presets: status %d", rr.Code)
	}
}

func TestPlanHistoryHandlerLimit(t *testing.T) {
	svc := &stubPlanService{}
	resp := &stubResponseHandler{}
	h := NewPlanHandlers(&Deps{ResponseHandler: resp, PlanSvc: svc})

	h.History(httptest.NewRecorder(), newRequest(http.MethodGet, "/plans/history?limit=5", nil, middleware.RoleViewer))
	if svc.limit != 5 || !resp.writeSuccessCalled {
		t.Fatalf("expected limit 5, got %d", svc.limit)
	}

	svc = &stubPlanService{}
	resp = &stubResponseHandler{}
	h = NewPlanHandlers(&Deps{ResponseHandler: resp, PlanSvc: svc})
	h.History(httptest.NewRecorder(), newRequest(http.MethodGet, "/plans/history?limit=abc", nil, middleware.RoleViewer))
	if svc.called || !resp.handleErrorCalled {
		t.Fatalf("invalid limit should be rejected before the service")
	}
}
