package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sepeiunido/plataforma/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps the domain error taxonomy to HTTP statuses. Store
// failures stay generic on the wire; the detail goes to the log only.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrIdentityIncomplete),
		errors.Is(err, domain.ErrNotAuthorized),
		errors.Is(err, domain.ErrAdminRequired):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrPollNotFound),
		errors.Is(err, domain.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrMemberExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrPollNotPublished),
		errors.Is(err, domain.ErrPollNotOpen),
		errors.Is(err, domain.ErrPollClosed),
		errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrInvalidWindow):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
