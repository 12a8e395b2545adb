package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/lukeacko/worklog/internal/worklog"
	"github.com/lukeacko/worklog/pkg/repository"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError maps domain failures onto HTTP statuses. Every failure here is
// recoverable: the client corrects the form and retries.
func writeError(w http.ResponseWriter, err error) {
	var verr *worklog.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, errorResponse{Error: verr.Message, Reason: verr.Reason}, http.StatusBadRequest)
	case errors.Is(err, repository.ErrDuplicateJobNum):
		writeJSON(w, errorResponse{Error: err.Error(), Reason: "DuplicateJobNumber"}, http.StatusConflict)
	case errors.Is(err, repository.ErrTechnicianInUse):
		writeJSON(w, errorResponse{Error: err.Error(), Reason: "TechnicianInUse"}, http.StatusConflict)
	case errors.Is(err, repository.ErrDuplicateTechnician):
		writeJSON(w, errorResponse{Error: err.Error(), Reason: "DuplicateTechnician"}, http.StatusConflict)
	case errors.Is(err, worklog.ErrUnknownTechnician):
		writeJSON(w, errorResponse{Error: err.Error(), Reason: "UnknownTechnician"}, http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, errorResponse{Error: err.Error(), Reason: "NotFound"}, http.StatusNotFound)
	default:
		logger.Error("store failure", slog.Any("err", err))
		writeJSON(w, errorResponse{Error: "store unavailable", Reason: "StoreUnavailable"}, http.StatusBadGateway)
	}
}
