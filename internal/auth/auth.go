// Package auth implements the Authenticator: a pure HTTP-level credential
// check with no knowledge of JSON-RPC (§4.D). It generalizes the teacher's
// total absence of auth into a single header-precedence, constant-time check.
package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dockermcp/gateway/internal/errs"
)

// queryCredentialParams lists query-parameter names a caller might mistake
// for an accepted credential channel. None of them are ever honored.
var queryCredentialParams = []string{"token", "access_token", "api_key", "apikey"}

// Identity is the outcome of a successful authenticate call.
type Identity struct {
	Authenticated bool
}

// Authenticator compares a presented bearer token against a single
// configured secret using constant-time comparison.
type Authenticator struct {
	secret string
}

// New builds an Authenticator for the given configured secret. An empty
// secret disables authentication entirely (every request is accepted),
// matching a local/dev deployment with no credential configured.
func New(secret string) *Authenticator {
	return &Authenticator{secret: secret}
}

// Enabled reports whether the Authenticator will reject unauthenticated requests.
func (a *Authenticator) Enabled() bool { return a.secret != "" }

// Authenticate inspects r's headers in the documented precedence order and
// returns an Identity, or an *errs.Error of kind Unauthenticated (missing or
// malformed credential) or Forbidden (present but incorrect).
func (a *Authenticator) Authenticate(r *http.Request) (Identity, error) {
	warnOnQueryCredentials(r)

	if !a.Enabled() {
		return Identity{Authenticated: true}, nil
	}

	token, ok := extractToken(r)
	if !ok {
		return Identity{}, errs.New(errs.Unauthenticated, "missing Authorization bearer token or X-Access-Token header")
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(a.secret)) != 1 {
		return Identity{}, errs.New(errs.Forbidden, "invalid credential")
	}

	return Identity{Authenticated: true}, nil
}

// extractToken applies the precedence order: Authorization: Bearer first,
// then X-Access-Token.
func extractToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(h, prefix) {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(h, prefix))
		if token == "" {
			return "", false
		}
		return token, true
	}
	if h := r.Header.Get("X-Access-Token"); h != "" {
		return h, true
	}
	return "", false
}

// warnOnQueryCredentials logs (without ever logging the value) when a
// request carries a credential-shaped query parameter, since those are
// never accepted as an authentication channel.
func warnOnQueryCredentials(r *http.Request) {
	q := r.URL.Query()
	for _, name := range queryCredentialParams {
		if q.Has(name) {
			slog.Warn("rejected credential-like query parameter; use a header instead", "param", name)
		}
	}
}

// Middleware wraps next, passing the status code and the authentication
// error to writeError (which writes the response body) for any request that
// fails authentication. Callers register it only
// on the routes that require a credential; health endpoints bypass it
// entirely. A missing credential answers 403; a present-but-wrong one
// answers 401 — the inverse of the usual convention, but this is the
// status pairing the MCP clients this gateway serves expect.
func Middleware(a *Authenticator, writeError func(w http.ResponseWriter, status int, err error), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := a.Authenticate(r); err != nil {
			status := http.StatusForbidden
			if errs.KindOf(err) == errs.Forbidden {
				status = http.StatusUnauthorized
			}
			writeError(w, status, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
