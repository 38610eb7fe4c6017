package rest

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/stride/internal/core/domain"
	"github.com/ewilliams-labs/stride/internal/core/planner"
	"github.com/ewilliams-labs/stride/internal/core/ports"
	"github.com/ewilliams-labs/stride/internal/core/services"
)

const (
	errCodeInvalidGoal     = "INVALID_GOAL"
	errCodeUnknownProfile  = "UNKNOWN_PROFILE"
	errCodeEmptyLibrary    = "EMPTY_LIBRARY"
	errCodeNotFound        = "NOT_FOUND"
	errCodeUnauthorized    = "UNAUTHORIZED"
	errCodeUnparseableGoal = "UNPARSEABLE_GOAL"
	errCodeNotConfigured   = "NOT_CONFIGURED"
	errCodeInternal        = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func isJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// writeServiceError maps core errors onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, planner.ErrInvalidGoal):
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidGoal)
	case errors.Is(err, planner.ErrUnknownProfile):
		writeErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), errCodeUnknownProfile)
	case errors.Is(err, planner.ErrEmptyPool):
		writeErrorWithCode(w, http.StatusUnprocessableEntity, "no saved tracks to build from; save more songs to your Spotify library", errCodeEmptyLibrary)
	case errors.Is(err, ports.ErrUnparseableGoal):
		writeErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), errCodeUnparseableGoal)
	case errors.Is(err, domain.ErrNotFound):
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeNotFound)
	case errors.Is(err, ports.ErrUnauthorized):
		writeErrorWithCode(w, http.StatusUnauthorized, "login required", errCodeUnauthorized)
	case errors.Is(err, services.ErrGoalParserUnavailable):
		writeErrorWithCode(w, http.StatusNotImplemented, err.Error(), errCodeNotConfigured)
	default:
		h.log.Error("rest: request failed", zap.Error(err))
		writeErrorWithCode(w, http.StatusInternalServerError, "internal error", errCodeInternal)
	}
}
