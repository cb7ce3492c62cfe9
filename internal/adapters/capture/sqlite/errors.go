// Package sqlite defines domain-specific errors
package sqlite

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	ErrInvalidRunID = errors.New("invalid capture run ID")
)
