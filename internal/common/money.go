package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDecimalMinorUnits converts a decimal currency amount (e.g. "49.99")
// into integer minor units. Surrounding systems exchange floating-point
// amounts; this conversion happens once, at the adapter boundary, so the
// engine only ever sees integers.
func ParseDecimalMinorUnits(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("empty amount")
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	return int64(math.Round(f * 100)), nil
}
