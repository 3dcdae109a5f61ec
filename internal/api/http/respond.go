package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps domain errors onto HTTP statuses. Validation problems are
// 400, missing aggregates 404, and any rule or state conflict is 409 so the
// client knows a retry with the same input cannot succeed right now.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrCarUnavailable),
		errors.Is(err, domain.ErrCustomerNotEligible),
		errors.Is(err, domain.ErrConcurrencyConflict),
		domain.IsInvalidStateTransition(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrBusy):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "temporarily busy, retry"})
	default:
		logger.Error("Unhandled request error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}
