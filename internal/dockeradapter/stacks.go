package dockeradapter

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/swarm"
	"gopkg.in/yaml.v3"

	"github.com/dockermcp/gateway/internal/errs"
)

// StackNamespaceLabel matches the label the Docker CLI itself applies to
// services deployed as part of a stack.
const StackNamespaceLabel = "com.docker.stack.namespace"

// DeployReport is the terminal summary of a stack deploy.
type DeployReport struct {
	Name     string   `json:"name"`
	Services []string `json:"services"`
}

// composeDoc is the minimal subset of a Compose document the gateway needs
// to translate into swarm services. Full Compose semantics (build, profiles,
// extends, etc.) are intentionally not modeled: the gateway is a thin,
// validated projection of the Docker API, not a Compose implementation.
type composeDoc struct {
	Services map[string]struct {
		Image       string            `yaml:"image"`
		Environment map[string]string `yaml:"environment"`
		Ports       []string          `yaml:"ports"`
		Command     []string          `yaml:"command"`
	} `yaml:"services"`
}

// DeployStack parses a compose document and issues one service create/update
// per compose service, labeling each with the stack namespace.
func (a *Adapter) DeployStack(ctx context.Context, name string, composeYAML []byte, auth *RegistryAuth) (*DeployReport, error) {
	var doc composeDoc
	if err := yaml.Unmarshal(composeYAML, &doc); err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, "invalid compose document", err)
	}
	if len(doc.Services) == 0 {
		return nil, errs.New(errs.InvalidArgument, "compose document declares no services")
	}

	deployed := make([]string, 0, len(doc.Services))
	for svcName, svc := range doc.Services {
		fullName := fmt.Sprintf("%s_%s", name, svcName)
		env := make([]string, 0, len(svc.Environment))
		for k, v := range svc.Environment {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}

		spec := swarm.ServiceSpec{
			Annotations: swarm.Annotations{
				Name:   fullName,
				Labels: map[string]string{StackNamespaceLabel: name},
			},
			TaskTemplate: swarm.TaskSpec{
				ContainerSpec: &swarm.ContainerSpec{
					Image:   svc.Image,
					Env:     env,
					Command: svc.Command,
				},
			},
		}

		if existing, _, err := a.cli.ServiceInspectWithRaw(ctx, fullName, types.ServiceInspectOptions{}); err == nil {
			if _, err := a.cli.ServiceUpdate(ctx, existing.ID, existing.Version, spec, types.ServiceUpdateOptions{}); err != nil {
				return nil, errs.FromDockerError(err)
			}
		} else {
			if _, err := a.cli.ServiceCreate(ctx, spec, types.ServiceCreateOptions{}); err != nil {
				return nil, errs.FromDockerError(err)
			}
		}
		deployed = append(deployed, fullName)
	}

	return &DeployReport{Name: name, Services: deployed}, nil
}

// RemoveStack removes every service labeled with the stack's namespace.
func (a *Adapter) RemoveStack(ctx context.Context, name string) error {
	services, err := a.ListServices(ctx, map[string]string{StackNamespaceLabel: name})
	if err != nil {
		return err
	}
	if len(services) == 0 {
		return errs.New(errs.NotFound, "no services found for stack "+name)
	}
	for _, s := range services {
		if err := a.ServiceRemove(ctx, s.ID); err != nil {
			return err
		}
	}
	return nil
}

// ListStacks derives the distinct set of stack namespaces from currently
// labeled services (the Docker API has no first-class "stack" object).
func (a *Adapter) ListStacks(ctx context.Context) ([]string, error) {
	services, err := a.ListServices(ctx, nil)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	for _, s := range services {
		ns := s.Labels[StackNamespaceLabel]
		if ns == "" || seen[ns] {
			continue
		}
		seen[ns] = true
		names = append(names, ns)
	}
	return names, nil
}

// StackServices lists the services belonging to one stack.
func (a *Adapter) StackServices(ctx context.Context, name string) ([]ServiceSummary, error) {
	return a.ListServices(ctx, map[string]string{StackNamespaceLabel: name})
}
