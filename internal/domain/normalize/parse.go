package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical serialized date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// dateLayouts are tried in order. Single-digit month/day verbs also accept
// zero-padded input. Slash dates without a leading year are month-first.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"20060102",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05",
	"2006-1-2 15:04",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	time.RFC3339,
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

// nullTokens are spellings of a missing value that exporters write into
// numeric columns.
var nullTokens = map[string]struct{}{
	"nan":  {},
	"n/a":  {},
	"na":   {},
	"null": {},
	"none": {},
	"-":    {},
	"#n/a": {},
}

// ParseNumber parses a floating point cell. Empty, null-token, unparsable
// and non-finite cells are absent.
func ParseNumber(raw string) Optional[float64] {
	s := strings.TrimSpace(raw)
	if s == "" {
		return None[float64]()
	}
	if _, ok := nullTokens[strings.ToLower(s)]; ok {
		return None[float64]()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return None[float64]()
	}
	return Some(f)
}

// ParseText trims a cell; an empty result is absent.
func ParseText(raw string) Optional[string] {
	s := strings.TrimSpace(raw)
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// ParseDate parses a calendar date. Any time of day is discarded and the
// result is midnight UTC of the written date.
func ParseDate(raw string) Optional[time.Time] {
	s := strings.TrimSpace(raw)
	if s == "" {
		return None[time.Time]()
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return Some(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
	return None[time.Time]()
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseRound parses a positive integer cell. Integral floats such as "3.0"
// are accepted; fractional, non-positive and unparsable cells are absent.
func ParseRound(raw string) Optional[int] {
	f, ok := ParseNumber(raw).Get()
	if !ok || f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return None[int]()
	}
	return Some(int(f))
}
