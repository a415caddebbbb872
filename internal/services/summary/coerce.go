package summary

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Num attempts to interpret an arbitrary decoded JSON value as a float.
// Numbers and numeric strings convert; everything else (null, booleans,
// objects, arrays, non-numeric strings) reports ok=false. Num never fails
// and has no side effects, so callers can apply it to any field blindly.
func Num(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
