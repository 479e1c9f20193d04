// Package metrics normalises provider values and maps provider field names onto canonical metrics.
package metrics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Normalize coerces a raw provider value into a finite float.
// Missing, non-numeric, boolean and non-finite inputs are absent (ok=false), never zero.
func Normalize(v any) (float64, bool) {
	var f float64

	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case *float64:
		if n == nil {
			return 0, false
		}
		f = *n
	default:
		// bool and composite values are not numbers
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NormalizePercent normalises a yield-like value to a fraction in [0,1].
// Values above 1.0 are taken to be on a 0-100 scale.
func NormalizePercent(v any) (float64, bool) {
	f, ok := Normalize(v)
	if !ok {
		return 0, false
	}
	if f > 1.0 {
		f = f / 100.0
	}
	return math.Max(0, math.Min(1, f)), true
}
