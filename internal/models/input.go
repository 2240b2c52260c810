package models

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// MaxAmount bounds the magnitude of a parsed amount. Larger values read as 0
// so differences stay finite and money stays within int64 cents.
const MaxAmount = 1e15

// ParseAmount reads a number typed by the user. Leading whitespace, a "$"
// and thousands separators are ignored and the longest numeric prefix is
// used, so "1,250.50 dollars" reads as 1250.5. Anything that does not start
// with a number, or whose magnitude exceeds MaxAmount, reads as 0.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	num := leadingFloat.FindString(s)
	if num == "" {
		return 0
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > MaxAmount {
		return 0
	}
	return v
}

// ParseShifts reads a shift count typed by the user. The longest integer
// prefix is used ("12.5" reads as 12); unparsable and negative input read as 0.
func ParseShifts(raw string) int {
	num := leadingInt.FindString(strings.TrimSpace(raw))
	if num == "" {
		return 0
	}
	v, err := strconv.Atoi(num)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
