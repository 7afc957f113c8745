package report

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownMetric = errors.New("unknown metric")
)
