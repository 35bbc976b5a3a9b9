package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// plainNumber matches decimal literals only: no thousands separators, hex, NaN or Inf.
var plainNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// NormalizeCell converts a raw cell to nil, float64 or a trimmed string.
func NormalizeCell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if plainNumber.MatchString(s) {
		// out-of-range literals stay strings
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
