package dockeradapter

import (
	"crypto/tls"
	"net/http"
)

// httpClientWithTLS builds an *http.Client suitable for client.WithHTTPClient
// using the given TLS configuration for the Docker daemon's TCP endpoint.
func httpClientWithTLS(cfg *tls.Config) *http.Client {
	return &http.Client{
		Transport: &http.Transport{TLSClientConfig: cfg},
	}
}
