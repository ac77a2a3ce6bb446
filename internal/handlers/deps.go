package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/samasastudio/sq-gendash/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client
	PlanSvc         PlanService
	DatasetSvc      DatasetService
	WorkspaceSvc    WorkspaceService
}
