package table

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInsufficientEnvironments is returned when fewer than
	// MinEnvironments environment columns could be inferred; the
	// dominance engine is not invoked in that case.
	ErrInsufficientEnvironments = errors.New("insufficient environments inferred")
)
