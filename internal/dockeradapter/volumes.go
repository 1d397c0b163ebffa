package dockeradapter

import (
	"context"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/volume"

	"github.com/dockermcp/gateway/internal/errs"
)

// VolumeSummary is the normalized shape for one volume.
type VolumeSummary struct {
	Name       string            `json:"name"`
	Driver     string            `json:"driver"`
	Mountpoint string            `json:"mountpoint"`
	Labels     map[string]string `json:"labels"`
}

// ListVolumes lists volumes matching the given label filters.
func (a *Adapter) ListVolumes(ctx context.Context, labelFilters map[string]string) ([]VolumeSummary, error) {
	f := filters.NewArgs()
	for k, v := range labelFilters {
		f.Add("label", k+"="+v)
	}
	resp, err := a.cli.VolumeList(ctx, volume.ListOptions{Filters: f})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	out := make([]VolumeSummary, 0, len(resp.Volumes))
	for _, v := range resp.Volumes {
		out = append(out, VolumeSummary{Name: v.Name, Driver: v.Driver, Mountpoint: v.Mountpoint, Labels: v.Labels})
	}
	return out, nil
}

// InspectVolume inspects a single volume by name.
func (a *Adapter) InspectVolume(ctx context.Context, name string) (*VolumeSummary, error) {
	v, err := a.cli.VolumeInspect(ctx, name)
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	return &VolumeSummary{Name: v.Name, Driver: v.Driver, Mountpoint: v.Mountpoint, Labels: v.Labels}, nil
}

// CreateVolume creates a volume with the given name and labels.
func (a *Adapter) CreateVolume(ctx context.Context, name string, labels map[string]string) (*VolumeSummary, error) {
	v, err := a.cli.VolumeCreate(ctx, volume.CreateOptions{Name: name, Labels: labels})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	return &VolumeSummary{Name: v.Name, Driver: v.Driver, Mountpoint: v.Mountpoint, Labels: v.Labels}, nil
}

// RemoveVolume removes a volume by name.
func (a *Adapter) RemoveVolume(ctx context.Context, name string, force bool) error {
	if err := a.cli.VolumeRemove(ctx, name, force); err != nil {
		return errs.FromDockerError(err)
	}
	return nil
}
