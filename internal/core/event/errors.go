// Package event defines domain-specific errors
package event

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	// ErrUnknownKind marks a record whose variant this build does not recognize
	ErrUnknownKind = errors.New("unknown event kind")
)
