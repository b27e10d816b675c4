package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotFound     = errors.New("player not found")
	ErrEmptyCatalog = errors.New("catalog not loaded")
)
