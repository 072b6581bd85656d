package cqlstore

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSessionMarshalJSON(t *testing.T) {
	sess := Session{
		Cookie: Attrs{"secure": true, "maxAge": float64(30000)},
		Values: map[string]any{"user": "u-1", "visits": float64(3)},
	}

	b, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshaling document: %v", err)
	}
	want := map[string]any{
		"user":   "u-1",
		"visits": float64(3),
		"cookie": map[string]any{"secure": true, "maxAge": float64(30000)},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionMarshalJSONNilCookie(t *testing.T) {
	sess := Session{Values: map[string]any{"user": "u-1"}}

	b, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshaling document: %v", err)
	}
	if _, ok := doc["cookie"]; ok {
		t.Errorf("document has cookie key: %s", b)
	}
}

func TestSessionRoundtrip(t *testing.T) {
	in := Session{
		Cookie: Attrs{"secure": true, "sameSite": "strict"},
		Values: map[string]any{"user": "u-1", "admin": false},
	}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out Session
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if diff := cmp.Diff(in.Values, out.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(in.Cookie, out.Cookie); diff != "" {
		t.Errorf("cookie mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantErr    bool
		wantValues map[string]any
		wantCookie Attrs
	}{
		{
			name:       "Values and cookie",
			doc:        `{"user":"u-1","cookie":{"secure":true}}`,
			wantValues: map[string]any{"user": "u-1"},
			wantCookie: Attrs{"secure": true},
		},
		{
			name:       "No cookie key",
			doc:        `{"user":"u-1"}`,
			wantValues: map[string]any{"user": "u-1"},
			wantCookie: nil,
		},
		{
			name:       "Empty document",
			doc:        `{}`,
			wantValues: map[string]any{},
			wantCookie: nil,
		},
		{
			name:       "Non-object cookie stays in values",
			doc:        `{"cookie":"strict"}`,
			wantValues: map[string]any{"cookie": "strict"},
			wantCookie: nil,
		},
		{
			name:    "Null document",
			doc:     `null`,
			wantErr: true,
		},
		{
			name:    "Array document",
			doc:     `["a"]`,
			wantErr: true,
		},
		{
			name:    "Not JSON",
			doc:     `%%%`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sess Session
			err := json.Unmarshal([]byte(tt.doc), &sess)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.wantValues, sess.Values); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCookie, sess.Cookie); diff != "" {
				t.Errorf("cookie mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
