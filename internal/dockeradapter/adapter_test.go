package dockeradapter

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSelfSignedKeyPair generates an ephemeral self-signed cert/key pair on
// disk for tests that exercise buildTLSConfig's file-loading path.
func writeSelfSignedKeyPair(t *testing.T) (certPath, keyPath string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	dir := t.TempDir()
	certPath = filepath.Join(dir, "cert.pem")
	keyPath = filepath.Join(dir, "key.pem")

	certOut := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(certPath, certOut, 0o600))

	keyOut := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(keyPath, keyOut, 0o600))

	return certPath, keyPath
}

func TestBuildTLSConfig_MissingCertFileErrors(t *testing.T) {
	_, err := buildTLSConfig(Options{TLSCert: "/nonexistent/cert.pem", TLSKey: "/nonexistent/key.pem"})
	require.Error(t, err)
}

func TestBuildTLSConfig_MissingCAFileErrors(t *testing.T) {
	certPath, keyPath := writeSelfSignedKeyPair(t)
	_, err := buildTLSConfig(Options{TLSCert: certPath, TLSKey: keyPath, TLSCA: "/nonexistent/ca.pem"})
	require.Error(t, err)
}

func TestBuildTLSConfig_InsecureSkipVerifyFollowsTLSVerifyFlag(t *testing.T) {
	certPath, keyPath := writeSelfSignedKeyPair(t)

	cfg, err := buildTLSConfig(Options{TLSCert: certPath, TLSKey: keyPath, TLSVerify: false})
	require.NoError(t, err)
	assert.True(t, cfg.InsecureSkipVerify)

	cfg, err = buildTLSConfig(Options{TLSCert: certPath, TLSKey: keyPath, TLSVerify: true})
	require.NoError(t, err)
	assert.False(t, cfg.InsecureSkipVerify)
}

func TestCapabilities_SwarmInactiveDisablesSwarmCapabilities(t *testing.T) {
	caps := capabilitiesFromSwarmState("inactive", false)
	assert.True(t, caps[CapEngine])
	assert.False(t, caps[CapSwarmWorkerOrManager])
	assert.False(t, caps[CapSwarmManager])
}

func TestCapabilities_ActiveWorkerWithoutControlAvailable(t *testing.T) {
	caps := capabilitiesFromSwarmState("active", false)
	assert.True(t, caps[CapSwarmWorkerOrManager])
	assert.False(t, caps[CapSwarmManager])
}

func TestCapabilities_ActiveManager(t *testing.T) {
	caps := capabilitiesFromSwarmState("active", true)
	assert.True(t, caps[CapSwarmWorkerOrManager])
	assert.True(t, caps[CapSwarmManager])
}
