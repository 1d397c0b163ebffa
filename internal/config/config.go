// Package config provides the gateway's server-wide configuration: a single
// immutable value constructed at startup from environment variables and an
// optional YAML overlay file, then passed by reference to every component.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig is the process-wide configuration. It is read-only after
// Load returns and is safely shared by every concurrent request.
type ServerConfig struct {
	AccessToken string `yaml:"access_token"`

	DockerHost      string `yaml:"docker_host"`
	DockerTLSCA     string `yaml:"docker_tls_ca"`
	DockerTLSCert   string `yaml:"docker_tls_cert"`
	DockerTLSKey    string `yaml:"docker_tls_key"`
	DockerTLSVerify bool   `yaml:"docker_tls_verify"`

	ListenAddr string `yaml:"listen_addr"`

	MaxConcurrentDockerCalls int `yaml:"max_concurrent_docker_calls"`
	FanoutMaxParallel        int `yaml:"fanout_max_parallel"`

	DefaultDeadline time.Duration `yaml:"-"`
	MaxDeadline     time.Duration `yaml:"-"`
	CancelGrace     time.Duration `yaml:"-"`

	DefaultDeadlineMS int `yaml:"default_deadline_ms"`
	MaxDeadlineMS     int `yaml:"max_deadline_ms"`
	CancelGraceMS     int `yaml:"cancel_grace_ms"`

	MaxRequestBytes int64 `yaml:"max_request_bytes"`

	TransportStreaming bool   `yaml:"transport_streaming"`
	LogFormat          string `yaml:"log_format"`

	OpenAIAPIKey string `yaml:"-"`
}

// Default returns the documented defaults from SPEC_FULL.md §6.
func Default() *ServerConfig {
	return &ServerConfig{
		ListenAddr:               "0.0.0.0:8000",
		MaxConcurrentDockerCalls: 64,
		FanoutMaxParallel:        16,
		DefaultDeadlineMS:        10_000,
		MaxDeadlineMS:            300_000,
		CancelGraceMS:            2_000,
		MaxRequestBytes:          1 << 20,
		LogFormat:                "json",
	}
}

// Load builds a ServerConfig from an optional YAML overlay (MCP_CONFIG_FILE)
// followed by environment variables, which always take precedence.
func Load() (*ServerConfig, error) {
	cfg := Default()

	if path := os.Getenv("MCP_CONFIG_FILE"); path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	cfg.loadFromEnv()
	cfg.resolveDurations()

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("MCP_ACCESS_TOKEN is required")
	}
	return cfg, nil
}

func (c *ServerConfig) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *ServerConfig) loadFromEnv() {
	setString(&c.AccessToken, "MCP_ACCESS_TOKEN")
	setString(&c.DockerHost, "DOCKER_HOST")
	setString(&c.DockerTLSCA, "DOCKER_TLS_CA")
	setString(&c.DockerTLSCert, "DOCKER_TLS_CERT")
	setString(&c.DockerTLSKey, "DOCKER_TLS_KEY")
	setBool(&c.DockerTLSVerify, "DOCKER_TLS_VERIFY")
	setString(&c.ListenAddr, "MCP_LISTEN_ADDR")
	setInt(&c.MaxConcurrentDockerCalls, "MCP_MAX_CONCURRENT_DOCKER_CALLS")
	setInt(&c.FanoutMaxParallel, "MCP_FANOUT_MAX_PARALLEL")
	setInt(&c.DefaultDeadlineMS, "MCP_DEFAULT_DEADLINE_MS")
	setInt(&c.MaxDeadlineMS, "MCP_MAX_DEADLINE_MS")
	setInt(&c.CancelGraceMS, "MCP_CANCEL_GRACE_MS")
	setInt64(&c.MaxRequestBytes, "MCP_MAX_REQUEST_BYTES")
	setBool(&c.TransportStreaming, "MCP_TRANSPORT_STREAMING")
	setString(&c.LogFormat, "MCP_LOG_FORMAT")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
}

func (c *ServerConfig) resolveDurations() {
	c.DefaultDeadline = time.Duration(c.DefaultDeadlineMS) * time.Millisecond
	c.MaxDeadline = time.Duration(c.MaxDeadlineMS) * time.Millisecond
	c.CancelGrace = time.Duration(c.CancelGraceMS) * time.Millisecond
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, env string) {
	if v := os.Getenv(env); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
