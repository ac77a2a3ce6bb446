package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/samasastudio/sq-gendash/internal/dto"
	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/middleware"
	"github.com/samasastudio/sq-gendash/internal/plan"
	"github.com/samasastudio/sq-gendash/internal/response"
)

type PlanService interface {
	Generate(ctx context.Context, uid, prompt string) (dto.GeneratePlanResponse, error)
	Presets() ([]plan.Preset, error)
	History(ctx context.Context, uid string, limit int) ([]dto.GenerationSummary, error)
}

type planHandlers struct {
	ResponseHandler response.ResponseHandler
	PlanSvc         PlanService
}

func NewPlanHandlers(deps *Deps) *planHandlers {
	return &planHandlers{
		ResponseHandler: deps.ResponseHandler,
		PlanSvc:         deps.PlanSvc,
	}
}

func (h *planHandlers) PlanRoutes() chi.Router {
	r := chi.NewRouter()
	r.With(middleware.RequireRole(middleware.RoleBuilder)).Post("/", h.Generate)
	r.Get("/presets", h.Presets)
	r.Get("/history", h.History)
	return r
}

func (h *planHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var body dto.GeneratePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	resp, err := h.PlanSvc.Generate(r.Context(), uid, body.Prompt)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *planHandlers) Presets(w http.ResponseWriter, r *http.Request) {
	presets, err := h.PlanSvc.Presets()
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, presets)
}

func (h *planHandlers) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	uid := middleware.UID(r.Context())
	history, err := h.PlanSvc.History(r.Context(), uid, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, history)
}
