package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockermcp/gateway/internal/errs"
)

func TestAuthenticate_MissingCredential(t *testing.T) {
	a := New("secret")
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	_, err := a.Authenticate(req)
	require.Error(t, err)
	assert.Equal(t, errs.Unauthenticated, errs.KindOf(err))
}

func TestAuthenticate_ValidBearerToken(t *testing.T) {
	a := New("secret")
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer secret")
	id, err := a.Authenticate(req)
	require.NoError(t, err)
	assert.True(t, id.Authenticated)
}

func TestAuthenticate_InvalidBearerToken(t *testing.T) {
	a := New("secret")
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	_, err := a.Authenticate(req)
	require.Error(t, err)
	assert.Equal(t, errs.Forbidden, errs.KindOf(err))
}

func TestAuthenticate_LegacyHeaderToken(t *testing.T) {
	a := New("secret")
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("X-Access-Token", "secret")
	_, err := a.Authenticate(req)
	require.NoError(t, err)
}

func TestAuthenticate_BearerTakesPrecedenceOverHeaderToken(t *testing.T) {
	a := New("secret")
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	req.Header.Set("X-Access-Token", "secret")
	_, err := a.Authenticate(req)
	require.Error(t, err, "Authorization header takes precedence even though X-Access-Token is valid")
}

func TestAuthenticate_MalformedBearerPrefix(t *testing.T) {
	a := New("secret")
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Token secret")
	_, err := a.Authenticate(req)
	require.Error(t, err)
	assert.Equal(t, errs.Unauthenticated, errs.KindOf(err))
}

func TestAuthenticate_QueryParamCredentialNeverAccepted(t *testing.T) {
	a := New("secret")
	req := httptest.NewRequest(http.MethodPost, "/mcp?token=secret", nil)
	_, err := a.Authenticate(req)
	require.Error(t, err, "query-parameter credentials must never be accepted")
}

func TestAuthenticate_EmptySecretDisablesAuth(t *testing.T) {
	a := New("")
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	id, err := a.Authenticate(req)
	require.NoError(t, err)
	assert.True(t, id.Authenticated)
}

func TestMiddleware_MissingCredentialReturns403(t *testing.T) {
	a := New("secret")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)

	called := false
	h := Middleware(a, writeStatusOnly, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddleware_WrongCredentialReturns401(t *testing.T) {
	a := New("secret")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer wrong")

	h := Middleware(a, writeStatusOnly, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_ValidCredentialReachesHandler(t *testing.T) {
	a := New("secret")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer secret")

	called := false
	h := Middleware(a, writeStatusOnly, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(rec, req)

	assert.True(t, called)
}

func writeStatusOnly(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
}
