package cqlstore

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestTTLSeconds(t *testing.T) {
	fallback := 24 * time.Hour

	tests := []struct {
		name   string
		cookie Attrs
		want   int
	}{
		{
			name:   "Milliseconds to seconds",
			cookie: Attrs{"maxAge": float64(10000)},
			want:   10,
		},
		{
			name:   "Rounds to nearest second",
			cookie: Attrs{"maxAge": float64(2500)},
			want:   3,
		},
		{
			name:   "Rounds down",
			cookie: Attrs{"maxAge": float64(2400)},
			want:   2,
		},
		{
			name:   "Integer maxAge",
			cookie: Attrs{"maxAge": 60000},
			want:   60,
		},
		{
			name:   "json.Number maxAge",
			cookie: Attrs{"maxAge": json.Number("5000")},
			want:   5,
		},
		{
			name:   "Duration maxAge",
			cookie: Attrs{"maxAge": 10 * time.Second},
			want:   10,
		},
		{
			name:   "Absent falls back",
			cookie: Attrs{},
			want:   86400,
		},
		{
			name:   "Nil cookie falls back",
			cookie: nil,
			want:   86400,
		},
		{
			name:   "Zero falls back",
			cookie: Attrs{"maxAge": float64(0)},
			want:   86400,
		},
		{
			name:   "Sub-second rounds to zero and falls back",
			cookie: Attrs{"maxAge": float64(400)},
			want:   86400,
		},
		{
			name:   "Negative falls back",
			cookie: Attrs{"maxAge": float64(-5000)},
			want:   86400,
		},
		{
			name:   "Non-numeric falls back",
			cookie: Attrs{"maxAge": "ten"},
			want:   86400,
		},
		{
			name:   "Boolean falls back",
			cookie: Attrs{"maxAge": true},
			want:   86400,
		},
		{
			name:   "NaN falls back",
			cookie: Attrs{"maxAge": math.NaN()},
			want:   86400,
		},
		{
			name:   "Overflowing falls back",
			cookie: Attrs{"maxAge": math.MaxFloat64},
			want:   86400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ttlSeconds(tt.cookie, fallback); got != tt.want {
				t.Errorf("ttlSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNormalizeMaxAge(t *testing.T) {
	cookie := Attrs{"maxAge": 90 * time.Second}
	normalizeMaxAge(cookie)
	if cookie["maxAge"] != float64(90000) {
		t.Errorf("maxAge = %v, want 90000", cookie["maxAge"])
	}

	// Non-duration values pass through untouched.
	cookie = Attrs{"maxAge": float64(1234)}
	normalizeMaxAge(cookie)
	if cookie["maxAge"] != float64(1234) {
		t.Errorf("maxAge = %v, want 1234", cookie["maxAge"])
	}
}
