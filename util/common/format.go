package common

import (
	"math"
	"strconv"
	"strings"
)

// RoundPrice rounds v to two decimals. Negative zero becomes zero.
func RoundPrice(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// FormatFloat renders v in the shortest form that round-trips, always
// keeping a fractional part: 0 -> "0.0", 3.5 -> "3.5", 12 -> "12.0".
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
