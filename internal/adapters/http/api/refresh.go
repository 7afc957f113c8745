// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// RefreshDependencies defines the interface for the manual-retry surface.
type RefreshDependencies interface {
	TriggerRefresh(ctx context.Context)
}

// RefreshHandler accepts manual refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status string `json:"status"`
}

// HandleRefresh handles POST /refresh requests. The poll happens
// asynchronously; the response only acknowledges the trigger.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.TriggerRefresh(r.Context())
	writeJSON(w, http.StatusAccepted, refreshResponse{Status: "scheduled"})
}
