package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownStrategy = errors.New("unknown trend strategy")
)
