// Package stream defines domain-specific errors
package stream

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	// Channel errors
	ErrChannelClosed = errors.New("tuple channel is closed")

	// Session errors
	ErrSessionClosed = errors.New("session is closed")
	ErrNilChannel    = errors.New("session requires a tuple channel")
)
