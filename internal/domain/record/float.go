package record

import (
	"math"
	"strconv"
	"strings"
)

// Float is a metric value. It marshals with the shortest round-trip
// digits, keeps a trailing ".0" on integral values and switches to
// exponent form outside [1e-4, 1e16), so 77 is written as 77.0.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	return []byte(FormatFloat(float64(f))), nil
}

// FormatFloat renders v in the Float wire format.
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "null"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func floatPtr(v float64, ok bool) *Float {
	if !ok {
		return nil
	}
	f := Float(v)
	return &f
}
