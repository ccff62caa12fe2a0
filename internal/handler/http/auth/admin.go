// Package auth implements the shared-secret admin gate of the news endpoint.
// There are no sessions or user identities: a request either carries the
// configured token in X-Admin-Token or it does not.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AdminTokenHeader carries the shared secret.
const AdminTokenHeader = "X-Admin-Token"

// Result is the outcome of checking one request.
type Result int

const (
	// Anonymous means no token was sent.
	Anonymous Result = iota
	// Admin means the token matched.
	Admin
	// Denied means a token was sent and did not match.
	Denied
	// Unconfigured means the server has no ADMIN_TOKEN, so nobody is admin.
	Unconfigured
)

func (r Result) String() string {
	switch r {
	case Admin:
		return "admin"
	case Denied:
		return "denied"
	case Unconfigured:
		return "unconfigured"
	default:
		return "anonymous"
	}
}

// Gate compares X-Admin-Token with Token in constant time.
type Gate struct {
	Token string
}

// Configured reports whether an admin token is set on the server.
func (g Gate) Configured() bool {
	return g.Token != ""
}

// Check classifies r and records the outcome.
func (g Gate) Check(r *http.Request) Result {
	result := g.check(strings.TrimSpace(r.Header.Get(AdminTokenHeader)))
	recordCheck(result)
	return result
}

func (g Gate) check(sent string) Result {
	if !g.Configured() {
		return Unconfigured
	}
	if sent == "" {
		return Anonymous
	}
	if subtle.ConstantTimeCompare([]byte(sent), []byte(g.Token)) == 1 {
		return Admin
	}
	return Denied
}

// IsAdmin reports whether r may see drafts and write posts.
func (g Gate) IsAdmin(r *http.Request) bool {
	return g.Check(r) == Admin
}
