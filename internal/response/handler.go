package response

import (
	"log/slog"
	"net/http"
)

// ResponseHandler writes the JSON envelope shared by every route. Handlers
// return typed errors from internal/errs and let HandleError pick the status.
type ResponseHandler interface {
	WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any)
	WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string)
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

var _ ResponseHandler = (*responseHandler)(nil)

type responseHandler struct {
	Log *slog.Logger
}

func New(log *slog.Logger) *responseHandler {
	return &responseHandler{Log: log}
}
