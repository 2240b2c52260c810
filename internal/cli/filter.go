package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseMonth accepts a month name, a three-letter abbreviation, or a number
// from 1 to 12 and returns the English month name. "" means all months.
func ParseMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return "", fmt.Errorf("month %d out of range", n)
		}
		return time.Month(n).String(), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown month %q", s)
}
