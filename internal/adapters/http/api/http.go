// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/subnetlab/paretoboard/internal/adapters/repository"
	"github.com/subnetlab/paretoboard/internal/domain/dominance"
	"github.com/subnetlab/paretoboard/internal/domain/model"
	"github.com/subnetlab/paretoboard/internal/domain/report"
	"github.com/subnetlab/paretoboard/internal/domain/table"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations over the current derived view.
	Environments(ctx context.Context) ([]string, error)
	Miners(ctx context.Context) ([]model.Miner, error)
	Winners(ctx context.Context) ([]dominance.Winner, error)
	Summary(ctx context.Context, metric string, topN int) (report.Summary, error)
	ExportCSV(ctx context.Context, metric string) ([]byte, error)

	// TriggerRefresh requests an immediate upstream poll.
	TriggerRefresh(ctx context.Context)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	viewHandler    *ViewHandler
	summaryHandler *SummaryHandler
	exportHandler  *ExportHandler
	refreshHandler *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		viewHandler:    NewViewHandler(deps),
		summaryHandler: NewSummaryHandler(deps),
		exportHandler:  NewExportHandler(deps),
		refreshHandler: NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/environments", MetricsMiddleware(s.viewHandler.HandleGetEnvironments, "environments"))
	mux.HandleFunc("/miners", MetricsMiddleware(s.viewHandler.HandleGetMiners, "miners"))
	mux.HandleFunc("/winners", MetricsMiddleware(s.viewHandler.HandleGetWinners, "winners"))
	mux.HandleFunc("/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/export.csv", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeViewError translates read-path errors into the API's taxonomy:
// no view yet is 404, an insufficient environment set is 422, a bad
// metric is 400, anything else is 500.
func writeViewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNoView):
		writeError(w, http.StatusNotFound, "no_data", err)
	case errors.Is(err, table.ErrInsufficientEnvironments):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_data", err)
	case errors.Is(err, report.ErrUnknownMetric):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
