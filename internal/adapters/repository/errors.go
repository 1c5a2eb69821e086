package repository

import "errors"

// Sentinel kinds for ranking store errors.
var (
	ErrNotFound     = errors.New("prospect not found")
	ErrInvalidLimit = errors.New("invalid list limit")
)
