package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lukeacko/worklog/internal/worklog"
	"github.com/lukeacko/worklog/pkg/models"
)

type LogsHandler struct {
	svc *worklog.Service
}

func NewLogsHandler(svc *worklog.Service) *LogsHandler {
	return &LogsHandler{svc: svc}
}

type entryPayload struct {
	JobNum      string `json:"jobnum"`
	VIN         string `json:"vin"`
	Technician  string `json:"technician"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Status      string `json:"status,omitempty"`
}

func (p entryPayload) entry() models.LogEntry {
	return models.LogEntry{
		JobNum:      p.JobNum,
		VIN:         p.VIN,
		Technician:  p.Technician,
		Description: p.Description,
		Date:        p.Date,
		Status:      p.Status,
	}
}

func (h *LogsHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var p entryPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	stored, err := h.svc.CreateEntry(r.Context(), p.entry())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, stored, http.StatusCreated)
}

// ListEntries runs a filtered query; absent params match everything. The
// result is backend-native order, the client's projection sorts it.
func (h *LogsHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.Filter{
		JobNum:     q.Get("jobnum"),
		VIN:        q.Get("vin"),
		Technician: q.Get("technician"),
		Status:     q.Get("status"),
		Date:       q.Get("date"),
	}

	entries, err := h.svc.QueryEntries(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}

	writeJSON(w, map[string]any{"total": len(entries), "items": entries}, http.StatusOK)
}

func (h *LogsHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var p entryPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	stored, err := h.svc.UpdateEntry(r.Context(), id, p.entry())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, stored, http.StatusOK)
}

func (h *LogsHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.svc.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
