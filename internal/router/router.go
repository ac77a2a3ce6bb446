package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/samasastudio/sq-gendash/internal/handlers"
	"github.com/samasastudio/sq-gendash/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	auth := middleware.NewMiddleware(deps.Firebase)
	plh := handlers.NewPlanHandlers(deps)
	dsh := handlers.NewDatasetHandlers(deps)
	wsh := handlers.NewWorkspaceHandlers(deps)

	r.Group(func(r chi.Router) {
		r.Use(auth.FirebaseAuth)
		r.Mount("/plans", plh.PlanRoutes())
		r.Mount("/datasets", dsh.DatasetRoutes())
		r.Mount("/workspace", wsh.WorkspaceRoutes())
	})
	return r
}
