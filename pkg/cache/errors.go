package cache

import "errors"

var (
	// ErrNotFound means the sensor key is unknown to the hot tier or
	// its data has passed its TTL. Absence is "unknown", never zero.
	ErrNotFound = errors.New("not found in hot tier")
)
