// Package params parses path and query parameters shared by handlers.
package params

import (
	"strconv"

	"analytics_backend/internal/shared/apperror"
)

var errInvalidID = apperror.New(apperror.KindInvalidInput, "id must be a positive integer")

// ID parses a positive integer path id.
func ID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errInvalidID
	}
	return uint(n), nil
}

// IntOr parses an optional integer query value, returning def when absent or malformed.
func IntOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
