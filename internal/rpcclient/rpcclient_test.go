package rpcclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall_SendsBearerTokenAndReturnsResult(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"ok":true}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok123")
	result, err := c.Call(context.Background(), 1, "ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(result, &decoded))
	assert.Equal(t, true, decoded["ok"])
}

func TestCall_RPCErrorIsReturnedAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Call(context.Background(), 1, "bogus", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}

func TestCall_HTTPErrorStatusIsReturnedAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("forbidden"))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Call(context.Background(), 1, "ping", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestCall_OmitsAuthorizationHeaderWhenTokenEmpty(t *testing.T) {
	var gotAuth string
	sawHeader := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, sawHeader = r.Header.Get("Authorization"), r.Header.Get("Authorization") != ""
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Call(context.Background(), 1, "ping", nil)
	require.NoError(t, err)
	assert.False(t, sawHeader, "expected no Authorization header, got %q", gotAuth)
}
