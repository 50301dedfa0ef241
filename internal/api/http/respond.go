package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"hoteldesk-panel/internal/backend"
	"hoteldesk-panel/internal/domain"
	"hoteldesk-panel/internal/logger"
	"hoteldesk-panel/internal/repository"
	"hoteldesk-panel/internal/security"
	"hoteldesk-panel/internal/service"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error  string                   `json:"error"`
	Issues []domain.ValidationIssue `json:"issues,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// writeError maps service and backend errors to HTTP statuses
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Issues: verr.Result.Issues})
	case errors.Is(err, service.ErrPanelNotFound), errors.Is(err, repository.ErrSubmissionNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrPanelClosed):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrCompanionIndex), errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, security.ErrInvalidToken), errors.Is(err, security.ErrExpiredToken):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, backend.ErrRejected):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, backend.ErrNotFound), errors.Is(err, backend.ErrInvalidResponse), errors.Is(err, backend.ErrInternal):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
	default:
		args := []any{"method", r.Method, "path", r.URL.Path, "error", err}
		if op, opErr := OperatorFromContext(r.Context()); opErr == nil {
			args = append(args, "operator_id", op.OperatorID)
		}
		logger.ErrorContext(r.Context(), "Unhandled request error", args...)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

var errBadRequest = errors.New("bad request")

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
