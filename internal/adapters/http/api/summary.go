// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/subnetlab/paretoboard/internal/domain/report"
)

// maxTopN caps GET /summary?top to keep responses bounded.
const maxTopN = 255

// SummaryDependencies defines the interface for summary operations.
type SummaryDependencies interface {
	Summary(ctx context.Context, metric string, topN int) (report.Summary, error)
}

// SummaryHandler handles aggregated summary requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleGetSummary handles GET /summary?metric=M&top=N requests.
// Both parameters are optional; the service's configured defaults apply.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	topN := 0
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		n, err := strconv.Atoi(topStr)
		if err != nil || n < 1 || n > maxTopN {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		topN = n
	}

	summary, err := h.deps.Summary(r.Context(), r.URL.Query().Get("metric"), topN)
	if err != nil {
		writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
