package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/samasastudio/sq-gendash/internal/middleware"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// newRequest builds a request carrying a test logger, a uid and a role.
func newRequest(method, target string, body io.Reader, role string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := logger.ToContext(req.Context(), slog.New(logger.NewTestHandler(slog.LevelInfo)))
	ctx = context.WithValue(ctx, middleware.UIDKey, "uid-123")
	ctx = context.WithValue(ctx, middleware.RoleKey, role)
	return req.WithContext(ctx)
}
