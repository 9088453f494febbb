package domain

import (
	"math"
	"strconv"
	"strings"
)

// MaxCount caps a single counter so it fits the INTEGER columns.
const MaxCount = math.MaxInt32

// CoerceCount clamps a raw count into [0, MaxCount].
func CoerceCount(n int64) int {
	if n < 0 {
		return 0
	}
	if n > MaxCount {
		return MaxCount
	}
	return int(n)
}

// ParseCount turns loosely typed user input into a count. Anything that is
// not a finite number yields 0; fractions are truncated.
func ParseCount(raw string) int64 {
	s := strings.Trim(strings.TrimSpace(raw), `"`)
	if s == "" || s == "null" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		if f > 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return int64(f)
}

// Percentage returns part*100/total rounded to two decimals, or 0 when
// total is not positive.
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)*100/float64(total)*100) / 100
}
