package dockeradapter

import (
	"context"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"

	"github.com/dockermcp/gateway/internal/errs"
)

// NetworkSummary is the normalized shape for one network.
type NetworkSummary struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Driver string            `json:"driver"`
	Labels map[string]string `json:"labels"`
}

// ListNetworks lists networks matching the given label filters.
func (a *Adapter) ListNetworks(ctx context.Context, labelFilters map[string]string) ([]NetworkSummary, error) {
	f := filters.NewArgs()
	for k, v := range labelFilters {
		f.Add("label", k+"="+v)
	}
	networks, err := a.cli.NetworkList(ctx, network.ListOptions{Filters: f})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	out := make([]NetworkSummary, 0, len(networks))
	for _, n := range networks {
		out = append(out, NetworkSummary{ID: n.ID, Name: n.Name, Driver: n.Driver, Labels: n.Labels})
	}
	return out, nil
}

// InspectNetwork inspects a single network by id or name.
func (a *Adapter) InspectNetwork(ctx context.Context, idOrName string) (*NetworkSummary, error) {
	n, err := a.cli.NetworkInspect(ctx, idOrName, network.InspectOptions{})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	return &NetworkSummary{ID: n.ID, Name: n.Name, Driver: n.Driver, Labels: n.Labels}, nil
}

// CreateNetwork creates a network with the given name, optional driver and labels.
func (a *Adapter) CreateNetwork(ctx context.Context, name, driver string, labels map[string]string) (string, error) {
	resp, err := a.cli.NetworkCreate(ctx, name, network.CreateOptions{Driver: driver, Labels: labels})
	if err != nil {
		return "", errs.FromDockerError(err)
	}
	return resp.ID, nil
}

// RemoveNetwork removes a network by id or name.
func (a *Adapter) RemoveNetwork(ctx context.Context, idOrName string) error {
	if err := a.cli.NetworkRemove(ctx, idOrName); err != nil {
		return errs.FromDockerError(err)
	}
	return nil
}
