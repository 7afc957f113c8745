package repository

import "errors"

// Sentinel kinds for view store errors.
var (
	ErrNoView  = errors.New("no view published yet")
	ErrNilView = errors.New("nil view")
)
