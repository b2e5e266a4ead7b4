package core

import "errors"

// Sentinel errors for programmatic checking.
var (
	ErrInvalidCoverage = errors.New("invalid coverage data")
	ErrInvalidGlob     = errors.New("invalid glob pattern")
	ErrReservedGroup   = errors.New("reserved group name")
)
