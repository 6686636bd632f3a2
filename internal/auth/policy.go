package auth

import (
	"net/http"
	"strings"
)

// Policy decides which requests bypass session authentication.
type Policy struct {
	exemptPaths    []string
	exemptPrefixes []string
}

// NewDefaultPolicy constructs a policy with exempt exact paths and prefixes.
func NewDefaultPolicy(exemptPaths, exemptPrefixes []string) Policy {
	return Policy{exemptPaths: exemptPaths, exemptPrefixes: exemptPrefixes}
}

// IsExempt reports whether the request skips authentication.
func (p Policy) IsExempt(r *http.Request) bool {
	if r == nil {
		return false
	}
	for _, path := range p.exemptPaths {
		if r.URL.Path == path {
			return true
		}
	}
	for _, prefix := range p.exemptPrefixes {
		if prefix != "" && strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}
