package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lukeacko/worklog/internal/worklog"
	"github.com/lukeacko/worklog/pkg/models"
)

type TechniciansHandler struct {
	svc *worklog.Service
}

func NewTechniciansHandler(svc *worklog.Service) *TechniciansHandler {
	return &TechniciansHandler{svc: svc}
}

func (h *TechniciansHandler) List(w http.ResponseWriter, r *http.Request) {
	techs, err := h.svc.ListTechnicians(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if techs == nil {
		techs = []models.Technician{}
	}

	writeJSON(w, techs, http.StatusOK)
}

// Upsert backs the inline add-new flow: inserting an existing name is a
// no-op and still returns the roster record.
func (h *TechniciansHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	t, err := h.svc.UpsertTechnician(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, t, http.StatusOK)
}

type renamePayload struct {
	NewName string `json:"new_name"`
}

func (h *TechniciansHandler) Rename(w http.ResponseWriter, r *http.Request) {
	old := mux.Vars(r)["name"]

	var p renamePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if p.NewName == "" || p.NewName == old {
		http.Error(w, "new_name required", http.StatusBadRequest)
		return
	}

	if err := h.svc.RenameTechnician(r.Context(), old, p.NewName); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TechniciansHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.svc.DeleteTechnician(r.Context(), name); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
