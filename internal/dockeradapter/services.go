package dockeradapter

import (
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/swarm"

	"github.com/dockermcp/gateway/internal/errs"
)

// ServiceSummary is the normalized shape for one swarm service.
type ServiceSummary struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Image    string            `json:"image"`
	Replicas *uint64           `json:"replicas,omitempty"`
	Labels   map[string]string `json:"labels"`
}

// ListServices lists swarm services matching the given label filters.
func (a *Adapter) ListServices(ctx context.Context, labelFilters map[string]string) ([]ServiceSummary, error) {
	f := filters.NewArgs()
	for k, v := range labelFilters {
		f.Add("label", k+"="+v)
	}
	services, err := a.cli.ServiceList(ctx, types.ServiceListOptions{Filters: f})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	out := make([]ServiceSummary, 0, len(services))
	for _, s := range services {
		out = append(out, summarizeService(s))
	}
	return out, nil
}

// InspectService inspects a single service by id or name.
func (a *Adapter) InspectService(ctx context.Context, idOrName string) (*ServiceSummary, error) {
	s, _, err := a.cli.ServiceInspectWithRaw(ctx, idOrName, types.ServiceInspectOptions{})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	summary := summarizeService(s)
	return &summary, nil
}

// ServiceScale scales a service to the given replica count.
func (a *Adapter) ServiceScale(ctx context.Context, idOrName string, replicas uint64) error {
	s, _, err := a.cli.ServiceInspectWithRaw(ctx, idOrName, types.ServiceInspectOptions{})
	if err != nil {
		return errs.FromDockerError(err)
	}
	if s.Spec.Mode.Replicated == nil {
		return errs.New(errs.InvalidArgument, "service is not in replicated mode; cannot scale")
	}
	s.Spec.Mode.Replicated.Replicas = &replicas

	_, err = a.cli.ServiceUpdate(ctx, s.ID, s.Version, s.Spec, types.ServiceUpdateOptions{})
	if err != nil {
		return errs.FromDockerError(err)
	}
	return nil
}

// ServiceUpdate applies a spec patch function produced by the caller after
// inspecting the current spec, matching the read-modify-write pattern the
// Docker API requires for updates.
func (a *Adapter) ServiceUpdate(ctx context.Context, idOrName string, patch func(*swarm.ServiceSpec)) error {
	s, _, err := a.cli.ServiceInspectWithRaw(ctx, idOrName, types.ServiceInspectOptions{})
	if err != nil {
		return errs.FromDockerError(err)
	}
	patch(&s.Spec)
	if _, err := a.cli.ServiceUpdate(ctx, s.ID, s.Version, s.Spec, types.ServiceUpdateOptions{}); err != nil {
		return errs.FromDockerError(err)
	}
	return nil
}

// ServiceRemove removes a service by id or name.
func (a *Adapter) ServiceRemove(ctx context.Context, idOrName string) error {
	if err := a.cli.ServiceRemove(ctx, idOrName); err != nil {
		return errs.FromDockerError(err)
	}
	return nil
}

func summarizeService(s swarm.Service) ServiceSummary {
	var replicas *uint64
	image := ""
	if s.Spec.TaskTemplate.ContainerSpec != nil {
		image = s.Spec.TaskTemplate.ContainerSpec.Image
	}
	if s.Spec.Mode.Replicated != nil {
		replicas = s.Spec.Mode.Replicated.Replicas
	}
	return ServiceSummary{
		ID:       s.ID,
		Name:     s.Spec.Name,
		Image:    image,
		Replicas: replicas,
		Labels:   s.Spec.Labels,
	}
}
