package cqlstore

import (
	"encoding/json"
	"math"
	"time"
)

// maxAgeKey is the cookie attribute the row TTL derives from. Its value is a
// lifetime in milliseconds.
const maxAgeKey = "maxAge"

// ttlSeconds derives the row's write-time TTL from the cookie's maxAge,
// rounding milliseconds to whole seconds. Absent, non-numeric, or
// non-positive values fall back to the default. A zero TTL would disable
// expiry entirely, so it never comes out of here.
func ttlSeconds(cookie Attrs, fallback time.Duration) int {
	if ms, ok := maxAgeMillis(cookie[maxAgeKey]); ok {
		if secs := math.Round(ms / 1000); secs > 0 && secs <= math.MaxInt32 {
			return int(secs)
		}
	}
	return int(fallback / time.Second)
}

// normalizeMaxAge rewrites a time.Duration maxAge into the stored
// millisecond form, so documents round-trip through JSON unchanged.
func normalizeMaxAge(cookie Attrs) {
	if d, ok := cookie[maxAgeKey].(time.Duration); ok {
		cookie[maxAgeKey] = float64(d.Milliseconds())
	}
}

// maxAgeMillis coerces the maxAge attribute into milliseconds. It accepts
// native numeric types, json.Number, and time.Duration; anything else
// reports false.
func maxAgeMillis(v any) (float64, bool) {
	switch n := v.(type) {
	case time.Duration:
		return float64(n.Milliseconds()), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return maxAgeMillis(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return maxAgeMillis(f)
	default:
		return 0, false
	}
}
