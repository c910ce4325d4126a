package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorecore/internal/auth"
	"github.com/dukerupert/chorecore/internal/chore"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": message, "code": code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON")
		return false
	}
	return true
}

// callerFrom returns the caller stored by the auth middleware. Routes are
// only mounted behind RequireAuth, so a missing caller is the zero value.
func callerFrom(r *http.Request) auth.Caller {
	c, _ := auth.FromContext(r.Context())
	return c
}

// writeServiceError maps domain errors to HTTP statuses and machine codes.
// Anything unrecognized is logged and reported as an internal error.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var verr *chore.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Error(),
			"code":  "validation_error",
			"field": verr.Field,
		})
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", "sign in required")
	case errors.Is(err, auth.ErrUnprovisioned):
		writeError(w, http.StatusForbidden, "onboarding_required", "create or join a house first")
	case errors.Is(err, chore.ErrNotAdmin):
		writeError(w, http.StatusForbidden, "not_admin", err.Error())
	case errors.Is(err, chore.ErrNotOwner):
		writeError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, chore.ErrNotFound), errors.Is(err, chore.ErrTemplateMissing):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, chore.ErrAlreadyApproved):
		writeError(w, http.StatusConflict, "already_approved", err.Error())
	case errors.Is(err, chore.ErrNotSubmitted):
		writeError(w, http.StatusConflict, "not_submitted", err.Error())
	case errors.Is(err, chore.ErrStateChanged):
		writeError(w, http.StatusConflict, "state_changed", err.Error())
	case errors.Is(err, chore.ErrNoCreditTarget):
		writeError(w, http.StatusConflict, "no_credit_target", err.Error())
	default:
		logger.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
