// Package repository holds the derived analytics view between refreshes.
package repository

import (
	"context"
	"time"

	"github.com/subnetlab/paretoboard/internal/domain/dominance"
	"github.com/subnetlab/paretoboard/internal/domain/model"
)

// View is one immutable derived snapshot: the normalized table plus the
// dominance results computed from it. Views are replaced wholesale; no
// field is mutated after publication.
type View struct {
	FetchedAt    time.Time
	Digest       uint64
	Environments []string
	Miners       []model.Miner
	Winners      []dominance.Winner

	// Insufficient marks a snapshot whose column set yielded fewer than
	// two environments; Winners is empty in that case.
	Insufficient bool
}

// Store provides access to the current view. Readers always see either
// the latest published view or the previous one in full, never a mix.
type Store interface {
	// Replace atomically publishes a new view.
	Replace(ctx context.Context, v *View) error

	// Current returns the latest published view.
	// Returns ErrNoView before the first publication.
	Current(ctx context.Context) (*View, error)

	// Generation returns how many views have been published.
	Generation(ctx context.Context) int
}
