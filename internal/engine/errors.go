package engine

import "errors"

// Sentinel kinds for engine errors.
var (
	ErrEmptySnapshot = errors.New("snapshot has no prospects")
)
