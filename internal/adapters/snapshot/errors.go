package snapshot

import "errors"

// Sentinel kinds for snapshot IO errors.
var (
	ErrReadSnapshot = errors.New("read snapshot failed")
	ErrBadSnapshot  = errors.New("malformed snapshot")
	ErrWriteResult  = errors.New("write result failed")
)
