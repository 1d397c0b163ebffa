package dockeradapter

import (
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/swarm"

	"github.com/dockermcp/gateway/internal/errs"
)

// SecretSummary is the normalized shape for one swarm secret (the value
// itself is never returned by the Docker API and therefore never appears here).
type SecretSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ConfigSummary is the normalized shape for one swarm config.
type ConfigSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListSecrets lists swarm secrets.
func (a *Adapter) ListSecrets(ctx context.Context) ([]SecretSummary, error) {
	secrets, err := a.cli.SecretList(ctx, types.SecretListOptions{})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	out := make([]SecretSummary, 0, len(secrets))
	for _, s := range secrets {
		out = append(out, SecretSummary{ID: s.ID, Name: s.Spec.Name})
	}
	return out, nil
}

// CreateSecret creates a swarm secret from raw data.
func (a *Adapter) CreateSecret(ctx context.Context, name string, data []byte) (string, error) {
	resp, err := a.cli.SecretCreate(ctx, swarm.SecretSpec{
		Annotations: swarm.Annotations{Name: name},
		Data:        data,
	})
	if err != nil {
		return "", errs.FromDockerError(err)
	}
	return resp.ID, nil
}

// RemoveSecret removes a swarm secret by id.
func (a *Adapter) RemoveSecret(ctx context.Context, id string) error {
	if err := a.cli.SecretRemove(ctx, id); err != nil {
		return errs.FromDockerError(err)
	}
	return nil
}

// ListConfigs lists swarm configs.
func (a *Adapter) ListConfigs(ctx context.Context) ([]ConfigSummary, error) {
	configs, err := a.cli.ConfigList(ctx, types.ConfigListOptions{})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	out := make([]ConfigSummary, 0, len(configs))
	for _, c := range configs {
		out = append(out, ConfigSummary{ID: c.ID, Name: c.Spec.Name})
	}
	return out, nil
}

// CreateConfig creates a swarm config from raw data.
func (a *Adapter) CreateConfig(ctx context.Context, name string, data []byte) (string, error) {
	resp, err := a.cli.ConfigCreate(ctx, swarm.ConfigSpec{
		Annotations: swarm.Annotations{Name: name},
		Data:        data,
	})
	if err != nil {
		return "", errs.FromDockerError(err)
	}
	return resp.ID, nil
}

// RemoveConfig removes a swarm config by id.
func (a *Adapter) RemoveConfig(ctx context.Context, id string) error {
	if err := a.cli.ConfigRemove(ctx, id); err != nil {
		return errs.FromDockerError(err)
	}
	return nil
}
