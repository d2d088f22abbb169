package domain

import "errors"

// Error taxonomy shared across services. Handlers map these to HTTP statuses.
// ErrNotFound deliberately covers both "does not exist" and "exists but not
// owned by the caller" so that existence is never leaked to unauthorized users.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream service failure")
	ErrStore      = errors.New("store failure")
)
