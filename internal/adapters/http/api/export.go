// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// ExportDependencies defines the interface for CSV export.
type ExportDependencies interface {
	ExportCSV(ctx context.Context, metric string) ([]byte, error)
}

// ExportHandler serves the downloadable winner ledger.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExport handles GET /export.csv?metric=M requests.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	out, err := h.deps.ExportCSV(r.Context(), r.URL.Query().Get("metric"))
	if err != nil {
		writeViewError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="subset_winners.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
