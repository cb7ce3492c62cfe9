// Package demux defines domain-specific errors
package demux

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	ErrNilRegistry = errors.New("router requires an attribute registry")
)
