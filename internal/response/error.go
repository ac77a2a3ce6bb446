package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Issues  []string `json:"issues,omitempty"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeError(w, r, status, ErrorResponse{Code: code, Message: message})
}

func (h *responseHandler) writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Use context logger if encoding fails
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", body.Code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	switch e := err.(type) {
	case *errs.NotFoundError:
		log.Warn("resource not found", "error", e.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", e.Message)

	case *errs.ForbiddenError:
		log.Warn("forbidden", "error", e.Message)
		h.WriteError(w, r, http.StatusForbidden, "forbidden", e.Message)

	case *errs.ValidationError:
		log.Warn("validation failed", "error", e.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", e.Message)

	case *errs.ExtractionError:
		log.Warn("plan extraction failed", "error", e.Message, "detail", e.Detail)
		h.WriteError(w, r, http.StatusUnprocessableEntity, "extraction_failed", e.Message)

	case *errs.InvalidPlanError:
		log.Warn("invalid plan", "issues", e.Issues)
		h.writeError(w, r, http.StatusUnprocessableEntity, ErrorResponse{
			Code:    "invalid_plan",
			Message: e.Message,
			Issues:  e.Issues,
		})

	case *errs.DatabaseError:
		log.Error("database error",
			"operation", e.Operation,
			"error", e.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	case *errs.ExternalServiceError:
		level := slog.LevelError
		if e.Transient {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "external service error",
			"service", e.Service,
			"transient", e.Transient,
			"error", e.Message)

		status := http.StatusBadGateway
		if e.Transient {
			status = http.StatusServiceUnavailable
		}
		h.WriteError(w, r, status, "service_unavailable",
			"Service temporarily unavailable")

	case *errs.EncryptionError:
		log.Error("encryption error", "error", e.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
