// Package dockeradapter is the gateway's only component that knows how to
// speak to a Docker Engine daemon. It generalizes the teacher's pkg/docker
// wrappers from five operations to the full §4.A contract: containers,
// images, networks, volumes, services, nodes, stacks, secrets, configs, and
// bounded events. Every call takes a context carrying the caller's deadline
// and the adapter never surfaces a raw transport error — everything is
// classified through internal/errs before it returns.
package dockeradapter

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/docker/docker/client"

	"github.com/dockermcp/gateway/internal/errs"
)

// Capability names a Docker feature a tool may require.
type Capability string

const (
	CapEngine              Capability = "engine"
	CapSwarmManager        Capability = "swarm-manager"
	CapSwarmWorkerOrManager Capability = "swarm-worker-or-manager"
)

// Adapter is a typed, narrow surface over one Docker daemon. It owns the
// connection pool exclusively; every other component is Docker-agnostic.
type Adapter struct {
	cli *client.Client
}

// Options configures how the adapter connects to the daemon.
type Options struct {
	Host       string
	TLSCA      string
	TLSCert    string
	TLSKey     string
	TLSVerify  bool
}

// New constructs an Adapter from environment/explicit options. It mirrors the
// teacher's client.NewClientWithOpts(client.FromEnv, ...) call, adding
// optional explicit mutual-TLS configuration (§6 DOCKER_TLS_*).
func New(opts Options) (*Adapter, error) {
	clientOpts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}

	if opts.Host != "" {
		clientOpts = append(clientOpts, client.WithHost(opts.Host))
	}

	if opts.TLSCert != "" && opts.TLSKey != "" {
		tlsCfg, err := buildTLSConfig(opts)
		if err != nil {
			return nil, fmt.Errorf("build docker tls config: %w", err)
		}
		clientOpts = append(clientOpts, client.WithHTTPClient(httpClientWithTLS(tlsCfg)))
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &Adapter{cli: cli}, nil
}

func buildTLSConfig(opts Options) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(opts.TLSCert, opts.TLSKey)
	if err != nil {
		return nil, err
	}
	cfg := &tls.Config{
		Certificates:       []tls.Certificate{cert},
		InsecureSkipVerify: !opts.TLSVerify,
	}
	if opts.TLSCA != "" {
		caBytes, err := os.ReadFile(opts.TLSCA)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caBytes) {
			return nil, fmt.Errorf("no certificates found in %s", opts.TLSCA)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}

// Close releases the adapter's underlying connection pool.
func (a *Adapter) Close() error {
	return a.cli.Close()
}

// Capabilities probes the daemon's swarm state once, used at startup (and on
// demand) to decide whether swarm-only tools should be enabled.
func (a *Adapter) Capabilities(ctx context.Context) (map[Capability]bool, error) {
	info, err := a.cli.Info(ctx)
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	return capabilitiesFromSwarmState(string(info.Swarm.LocalNodeState), info.Swarm.ControlAvailable), nil
}

func capabilitiesFromSwarmState(state string, controlAvailable bool) map[Capability]bool {
	caps := map[Capability]bool{CapEngine: true}
	switch state {
	case "active":
		caps[CapSwarmWorkerOrManager] = true
		caps[CapSwarmManager] = controlAvailable
	default:
		caps[CapSwarmWorkerOrManager] = false
		caps[CapSwarmManager] = false
	}
	return caps
}
