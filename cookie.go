package cqlstore

import "maps"

// DevDomain is the cookie domain applied by the development baseline.
const DevDomain = "localhost"

// resolveCookiePolicy builds the attribute set merged over every session's
// cookie on write. Development gets a permissive baseline suited to plain
// HTTP on a local host, production a locked-down one. Overrides win per key.
func resolveCookiePolicy(development bool, prod, dev Attrs) Attrs {
	if development {
		policy := Attrs{
			"secure":   false,
			"httpOnly": false,
			"sameSite": "lax",
			"domain":   DevDomain,
		}
		maps.Copy(policy, dev)
		return policy
	}
	policy := Attrs{
		"secure":   true,
		"httpOnly": true,
		"sameSite": "strict",
	}
	maps.Copy(policy, prod)
	return policy
}
