package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrAborted     = errors.New("aborted by user")
	ErrSeedMissing = errors.New("seed note missing")
)
