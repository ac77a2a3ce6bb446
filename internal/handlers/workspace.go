package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samasastudio/sq-gendash/internal/middleware"
	"github.com/samasastudio/sq-gendash/internal/models"
	"github.com/samasastudio/sq-gendash/internal/response"
)

type WorkspaceService interface {
	Get(ctx context.Context, uid string) (*models.Workspace, error)
	Reset(ctx context.Context, uid string) error
}

type workspaceHandlers struct {
	ResponseHandler response.ResponseHandler
	WorkspaceSvc    WorkspaceService
}

func NewWorkspaceHandlers(deps *Deps) *workspaceHandlers {
	return &workspaceHandlers{
		ResponseHandler: deps.ResponseHandler,
		WorkspaceSvc:    deps.WorkspaceSvc,
	}
}

func (h *workspaceHandlers) WorkspaceRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.With(middleware.RequireRole(middleware.RoleBuilder)).Delete("/", h.Reset)
	return r
}

func (h *workspaceHandlers) Get(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	ws, err := h.WorkspaceSvc.Get(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, ws)
}

func (h *workspaceHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.WorkspaceSvc.Reset(r.Context(), uid); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
