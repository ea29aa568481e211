package workflow

import (
	"math"
	"strconv"
	"strings"
)

// ClampQuantity floors v to a non-negative integer. Invalid input is 0.
func ClampQuantity(v float64) int64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return int64(math.Floor(v))
}

// ClampMultiplier floors v to an integer of at least 1. A multiplier of
// zero is never assumed by default.
func ClampMultiplier(v float64) int64 {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	return int64(math.Floor(v))
}

// ParseQuantity reads an operator-entered quantity field. Empty or
// unparseable input is 0.
func ParseQuantity(s string) int64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return ClampQuantity(v)
}

// ParseMultiplier reads an operator-entered multiplier field. Empty or
// unparseable input is 1.
func ParseMultiplier(s string) int64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 1
	}
	return ClampMultiplier(v)
}

// Total is the committed quantity: floor(qty) * floor(multiplier).
func Total(qty, multiplier float64) int64 {
	return ClampQuantity(qty) * ClampMultiplier(multiplier)
}

// CommitEnabled reports whether commit controls are live.
func CommitEnabled(total int64, hasLocation, hasItem bool) bool {
	return total > 0 && hasLocation && hasItem
}
