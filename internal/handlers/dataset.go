package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samasastudio/sq-gendash/internal/dto"
	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/middleware"
	"github.com/samasastudio/sq-gendash/internal/models"
	"github.com/samasastudio/sq-gendash/internal/response"
)

type DatasetService interface {
	Fetch(ctx context.Context, raw json.RawMessage) (models.DatasetResult, error)
	Load(ctx context.Context, uid, generationID string) (dto.LoadDatasetsResponse, error)
}

type datasetHandlers struct {
	ResponseHandler response.ResponseHandler
	DatasetSvc      DatasetService
}

func NewDatasetHandlers(deps *Deps) *datasetHandlers {
	return &datasetHandlers{
		ResponseHandler: deps.ResponseHandler,
		DatasetSvc:      deps.DatasetSvc,
	}
}

func (h *datasetHandlers) DatasetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Fetch)
	r.With(middleware.RequireRole(middleware.RoleBuilder)).Post("/load", h.Load)
	return r
}

// Fetch returns 200 with a tagged result even when the dataset failed to
// load; only malformed requests are errors.
func (h *datasetHandlers) Fetch(w http.ResponseWriter, r *http.Request) {
	var body dto.FetchDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	res, err := h.DatasetSvc.Fetch(r.Context(), body.Dataset)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *datasetHandlers) Load(w http.ResponseWriter, r *http.Request) {
	var body dto.LoadDatasetsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if body.GenerationID == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("generationId is required"))
		return
	}

	uid := middleware.UID(r.Context())
	resp, err := h.DatasetSvc.Load(r.Context(), uid, body.GenerationID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}
