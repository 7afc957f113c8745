// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/subnetlab/paretoboard/internal/domain/dominance"
	"github.com/subnetlab/paretoboard/internal/domain/model"
)

// ViewDependencies defines the interface for raw view reads.
type ViewDependencies interface {
	Environments(ctx context.Context) ([]string, error)
	Miners(ctx context.Context) ([]model.Miner, error)
	Winners(ctx context.Context) ([]dominance.Winner, error)
}

// ViewHandler serves the raw derived-view endpoints.
type ViewHandler struct {
	deps ViewDependencies
}

// NewViewHandler creates a new view handler.
func NewViewHandler(deps ViewDependencies) *ViewHandler {
	return &ViewHandler{deps: deps}
}

// HandleGetEnvironments handles GET /environments requests.
func (h *ViewHandler) HandleGetEnvironments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	envs, err := h.deps.Environments(r.Context())
	if err != nil {
		writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envs)
}

// HandleGetMiners handles GET /miners requests.
func (h *ViewHandler) HandleGetMiners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	miners, err := h.deps.Miners(r.Context())
	if err != nil {
		writeViewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, miners)
}

// winnerResponse mirrors the wire shape consumers render from.
type winnerResponse struct {
	Mask         int         `json:"mask"`
	Size         int         `json:"size"`
	EnvList      []string    `json:"envList"`
	WinnerID     string      `json:"winnerId"`
	WinnerLabel  string      `json:"winnerLabel"`
	WinnerUID    *int        `json:"winnerUid"`
	WinnerWeight model.Score `json:"winnerWeight"`
	WinnerPts    model.Score `json:"winnerPts"`
	Sum          model.Score `json:"sum"`
	Edges        int         `json:"edges"`
	Decided      string      `json:"decided"`
}

// HandleGetWinners handles GET /winners requests.
func (h *ViewHandler) HandleGetWinners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	winners, err := h.deps.Winners(r.Context())
	if err != nil {
		writeViewError(w, err)
		return
	}
	out := make([]winnerResponse, 0, len(winners))
	for _, win := range winners {
		out = append(out, winnerResponse{
			Mask:         win.Mask,
			Size:         win.Size,
			EnvList:      win.EnvList,
			WinnerID:     win.Miner.ID,
			WinnerLabel:  win.Miner.Model,
			WinnerUID:    win.Miner.UID,
			WinnerWeight: win.Miner.Weight,
			WinnerPts:    win.Miner.Pts,
			Sum:          win.Sum,
			Edges:        win.Edges,
			Decided:      string(win.Decided),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
