package upstream

import "errors"

// Sentinel kinds for upstream fetch errors.
var (
	ErrFetch  = errors.New("upstream fetch failed")
	ErrStatus = errors.New("upstream returned non-OK status")
	ErrDecode = errors.New("upstream payload decode failed")
)
