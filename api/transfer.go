package api

import (
	"net/http"

	"github.com/lukeacko/worklog/internal/transfer"
	"github.com/lukeacko/worklog/internal/worklog"
	"github.com/lukeacko/worklog/pkg/models"
)

type TransferHandler struct {
	svc *worklog.Service
	tr  *transfer.Transfer
}

func NewTransferHandler(svc *worklog.Service, tr *transfer.Transfer) *TransferHandler {
	return &TransferHandler{svc: svc, tr: tr}
}

// Export streams the filtered row set as a CSV attachment. The same query
// params as ListEntries apply, plus sort/desc to fix the display order, so
// the file matches what the table shows.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
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

	proj := worklog.NewProjection()
	proj.Reload(entries)
	if col := q.Get("sort"); col != "" {
		proj.SortBy(col)
		if q.Get("desc") == "true" {
			proj.SortBy(col)
		}
	}

	// the attachment headers only belong on a response that carries the file
	if proj.Len() == 0 {
		http.Error(w, "no logs to export", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="worklogs.csv"`)
	if err := h.tr.Export(proj.Rows(), w); err != nil {
		writeError(w, err)
	}
}

// Import accepts the CSV file as the request body and reports how many
// rows were added. Partial results stay committed when a later row fails.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	rep, err := h.tr.Import(r.Context(), r.Body)
	if err != nil {
		writeJSON(w, map[string]any{
			"error":   err.Error(),
			"reason":  "ImportError",
			"added":   rep.Added,
			"skipped": rep.Skipped,
		}, http.StatusBadRequest)
		return
	}

	writeJSON(w, rep, http.StatusOK)
}
