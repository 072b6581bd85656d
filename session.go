package cqlstore

import (
	"encoding/json"
	"fmt"
	"maps"
)

// cookieKey is the reserved top-level key in the stored JSON document that
// holds the session's cookie attributes.
const cookieKey = "cookie"

// Attrs is a loose bag of cookie attributes, e.g. maxAge, secure, httpOnly,
// sameSite, domain. Values are JSON-shaped.
type Attrs map[string]any

// Session is one user session. Values holds application data, Cookie holds
// the transmission attributes stored alongside it.
type Session struct {
	// Cookie carries the cookie attributes for this session. The store's
	// resolved policy is merged over it on every Set.
	Cookie Attrs
	// Values holds the application's session data. Keys must not collide
	// with the reserved "cookie" key.
	Values map[string]any
}

// NewSession returns an empty session with initialized maps.
func NewSession() *Session {
	return &Session{
		Cookie: Attrs{},
		Values: map[string]any{},
	}
}

// MarshalJSON flattens the session into a single document: all Values at the
// top level, with the cookie attributes nested under "cookie".
func (s Session) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(s.Values)+1)
	maps.Copy(doc, s.Values)
	if s.Cookie != nil {
		doc[cookieKey] = map[string]any(s.Cookie)
	}
	return json.Marshal(doc)
}

// UnmarshalJSON splits a stored document back into Values and Cookie. A
// top-level "cookie" key that isn't an object is left in Values untouched.
func (s *Session) UnmarshalJSON(b []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("session document is null")
	}
	s.Cookie = nil
	if c, ok := doc[cookieKey].(map[string]any); ok {
		s.Cookie = Attrs(c)
		delete(doc, cookieKey)
	}
	s.Values = doc
	return nil
}
