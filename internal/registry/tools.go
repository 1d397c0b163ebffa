package registry

import (
	"context"
	"time"

	"github.com/docker/docker/api/types/swarm"

	"github.com/dockermcp/gateway/internal/dockeradapter"
	"github.com/dockermcp/gateway/internal/fanout"
	"github.com/dockermcp/gateway/internal/schema"
)

const (
	shortDeadline  = 10 * time.Second
	midDeadline    = 30 * time.Second
	longDeadline   = 120 * time.Second
	nodeStatsOverall   = 15 * time.Second
	nodeStatsPerTarget = 5 * time.Second
)

var engineOnly = []dockeradapter.Capability{dockeradapter.CapEngine}
var swarmManager = []dockeradapter.Capability{dockeradapter.CapSwarmManager}

// RegisterDockerTools adds the full §4.B catalog to the builder. fc is the
// fan-out coordinator used by node_stats.
func RegisterDockerTools(b *Builder, fc *fanout.Coordinator, fanoutMaxParallel int) *Builder {
	b.Tool(ToolDef{
		Name: "list_containers", Title: "List containers", Description: "List containers visible to the daemon, optionally including stopped ones.",
		InputSchema:     obj(map[string]*schema.Schema{"all": boolean("include stopped containers"), "labels": object("label filters"), "limit": integerMin("maximum number of containers to return; 0 means no limit", 0)}),
		Capabilities:    engineOnly, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			containers, err := a.ListContainers(ctx, argStringMap(args, "labels"), argBool(args, "all"), argInt(args, "limit", 0))
			if err != nil {
				return nil, err
			}
			return map[string]any{"containers": containers}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "get_container", Title: "Get container", Description: "Inspect a single container by id or name.",
		InputSchema:  obj(map[string]*schema.Schema{"id": str("container id or name")}, "id"),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			return a.GetContainer(ctx, argStr(args, "id"))
		},
	})

	b.Tool(ToolDef{
		Name: "container_lifecycle", Title: "Container lifecycle", Description: "Start, stop, restart, pause, unpause, kill, or remove a container.",
		InputSchema: obj(map[string]*schema.Schema{
			"id":     str("container id or name"),
			"action": strEnum("lifecycle action", "start", "stop", "restart", "pause", "unpause", "kill", "remove"),
		}, "id", "action"),
		Capabilities: engineOnly, DefaultDeadline: midDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			err := a.ContainerLifecycle(ctx, argStr(args, "id"), dockeradapter.LifecycleAction(argStr(args, "action")))
			if err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok"}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "container_logs", Title: "Container logs", Description: "Fetch a bounded slice of container logs (no follow mode).",
		InputSchema: obj(map[string]*schema.Schema{
			"id": str("container id or name"), "tail": str("number of lines from the end, e.g. \"200\""),
			"since": str("RFC3339 or unix timestamp"), "until": str("RFC3339 or unix timestamp"),
			"timestamps": boolean("prefix each line with its timestamp"),
		}, "id"),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			logs, err := a.ContainerLogs(ctx, argStr(args, "id"), dockeradapter.LogOptions{
				Tail: argStr(args, "tail"), Since: argStr(args, "since"), Until: argStr(args, "until"),
				Timestamps: argBool(args, "timestamps"),
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"logs": logs}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "container_exec", Title: "Container exec", Description: "Run a command inside a container and wait for it to finish.",
		InputSchema: obj(map[string]*schema.Schema{
			"id": str("container id or name"), "argv": arrayOf("command and arguments", str("argument")),
			"user": str("user to run as"), "workdir": str("working directory"),
		}, "id", "argv"),
		Capabilities: engineOnly, DefaultDeadline: midDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			return a.ContainerExec(ctx, argStr(args, "id"), argStringSlice(args, "argv"), dockeradapter.ExecOptions{
				User: argStr(args, "user"), Workdir: argStr(args, "workdir"),
			})
		},
	})

	b.Tool(ToolDef{
		Name: "container_stats", Title: "Container stats", Description: "Fetch a point-in-time resource usage snapshot for a container.",
		InputSchema:  obj(map[string]*schema.Schema{"id": str("container id or name")}, "id"),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			return a.ContainerStats(ctx, argStr(args, "id"))
		},
	})

	b.Tool(ToolDef{
		Name: "list_images", Title: "List images", Description: "List images known to the daemon.",
		InputSchema:  obj(map[string]*schema.Schema{"labels": object("label filters")}),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			images, err := a.ListImages(ctx, argStringMap(args, "labels"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"images": images}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "pull_image", Title: "Pull image", Description: "Pull an image reference and return a terminal summary (no progress stream).",
		InputSchema:  obj(map[string]*schema.Schema{"reference": str("image reference, e.g. nginx:latest")}, "reference"),
		Capabilities: engineOnly, DefaultDeadline: longDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			return a.PullImage(ctx, argStr(args, "reference"), nil)
		},
	})

	b.Tool(ToolDef{
		Name: "remove_image", Title: "Remove image", Description: "Remove an image by reference.",
		InputSchema:  obj(map[string]*schema.Schema{"reference": str("image reference"), "force": boolean("force removal")}, "reference"),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			if err := a.RemoveImage(ctx, argStr(args, "reference"), argBool(args, "force")); err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok"}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "list_networks", Title: "List networks", Description: "List Docker networks.",
		InputSchema:  obj(map[string]*schema.Schema{"labels": object("label filters")}),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			networks, err := a.ListNetworks(ctx, argStringMap(args, "labels"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"networks": networks}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "create_network", Title: "Create network", Description: "Create a Docker network.",
		InputSchema:  obj(map[string]*schema.Schema{"name": str("network name"), "driver": str("network driver, e.g. bridge"), "labels": object("labels to apply")}, "name"),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			id, err := a.CreateNetwork(ctx, argStr(args, "name"), argStr(args, "driver"), argStringMap(args, "labels"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"id": id}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "remove_network", Title: "Remove network", Description: "Remove a Docker network by id or name.",
		InputSchema:  obj(map[string]*schema.Schema{"id": str("network id or name")}, "id"),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			if err := a.RemoveNetwork(ctx, argStr(args, "id")); err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok"}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "list_volumes", Title: "List volumes", Description: "List Docker volumes.",
		InputSchema:  obj(map[string]*schema.Schema{"labels": object("label filters")}),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			volumes, err := a.ListVolumes(ctx, argStringMap(args, "labels"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"volumes": volumes}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "create_volume", Title: "Create volume", Description: "Create a Docker volume.",
		InputSchema:  obj(map[string]*schema.Schema{"name": str("volume name"), "labels": object("labels to apply")}, "name"),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			return a.CreateVolume(ctx, argStr(args, "name"), argStringMap(args, "labels"))
		},
	})

	b.Tool(ToolDef{
		Name: "remove_volume", Title: "Remove volume", Description: "Remove a Docker volume by name.",
		InputSchema:  obj(map[string]*schema.Schema{"name": str("volume name"), "force": boolean("force removal")}, "name"),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			if err := a.RemoveVolume(ctx, argStr(args, "name"), argBool(args, "force")); err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok"}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "list_services", Title: "List services", Description: "List Swarm services.",
		InputSchema:  obj(map[string]*schema.Schema{"labels": object("label filters")}),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			services, err := a.ListServices(ctx, argStringMap(args, "labels"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"services": services}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "get_service", Title: "Get service", Description: "Inspect a single Swarm service.",
		InputSchema:  obj(map[string]*schema.Schema{"service": str("service id or name")}, "service"),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			return a.InspectService(ctx, argStr(args, "service"))
		},
	})

	b.Tool(ToolDef{
		Name: "scale_service", Title: "Scale service", Description: "Scale a replicated Swarm service to the given replica count.",
		InputSchema:  obj(map[string]*schema.Schema{"service": str("service id or name"), "replicas": integerMin("desired replica count", 0)}, "service", "replicas"),
		Capabilities: swarmManager, DefaultDeadline: midDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			if err := a.ServiceScale(ctx, argStr(args, "service"), argUint64(args, "replicas")); err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok"}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "update_service", Title: "Update service", Description: "Update a Swarm service's image.",
		InputSchema:  obj(map[string]*schema.Schema{"service": str("service id or name"), "image": str("new image reference")}, "service", "image"),
		Capabilities: swarmManager, DefaultDeadline: midDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			image := argStr(args, "image")
			err := a.ServiceUpdate(ctx, argStr(args, "service"), func(spec *swarm.ServiceSpec) {
				if spec.TaskTemplate.ContainerSpec != nil {
					spec.TaskTemplate.ContainerSpec.Image = image
				}
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok"}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "remove_service", Title: "Remove service", Description: "Remove a Swarm service.",
		InputSchema:  obj(map[string]*schema.Schema{"service": str("service id or name")}, "service"),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			if err := a.ServiceRemove(ctx, argStr(args, "service")); err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok"}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "list_nodes", Title: "List nodes", Description: "List Swarm nodes.",
		InputSchema:  obj(map[string]*schema.Schema{}),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			nodes, err := a.ListNodes(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{"nodes": nodes}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "node_tasks", Title: "Node tasks", Description: "List tasks scheduled on a Swarm node.",
		InputSchema:  obj(map[string]*schema.Schema{"node": str("node id")}, "node"),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			tasks, err := a.NodeTasks(ctx, argStr(args, "node"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"tasks": tasks}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "node_stats", Title: "Node stats (fan-out)", Description: "Collect a resource snapshot from every Swarm node in parallel, tolerating per-node failures.",
		InputSchema: obj(map[string]*schema.Schema{}), OutputSchema: nil,
		Capabilities: swarmManager, DefaultDeadline: nodeStatsOverall, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			nodes, err := a.ListNodes(ctx)
			if err != nil {
				return nil, err
			}
			targets := make([]string, len(nodes))
			for i, n := range nodes {
				targets[i] = n.ID
			}

			agg := fanout.Fanout(ctx, fc, targets, nodeStatsPerTarget, fanoutMaxParallel, func(ctx context.Context, target string) (map[string]any, error) {
				return a.NodeStats(ctx, target)
			})

			failures := make([]map[string]any, 0, len(agg.Failures))
			for _, f := range agg.Failures {
				failures = append(failures, map[string]any{"target": f.Target, "kind": string(f.Kind), "message": f.Message})
			}
			successes := make([]map[string]any, 0, len(agg.Successes))
			for _, s := range agg.Successes {
				successes = append(successes, map[string]any{"target": s.Target, "value": s.Value})
			}
			return map[string]any{
				"successes": successes,
				"failures":  failures,
				"partial":   agg.Partial,
			}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "deploy_stack", Title: "Deploy stack", Description: "Deploy (create or update) a stack from a Compose document.",
		InputSchema:  obj(map[string]*schema.Schema{"name": str("stack name"), "compose": str("compose document, YAML")}, "name", "compose"),
		Capabilities: swarmManager, DefaultDeadline: longDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			return a.DeployStack(ctx, argStr(args, "name"), []byte(argStr(args, "compose")), nil)
		},
	})

	b.Tool(ToolDef{
		Name: "remove_stack", Title: "Remove stack", Description: "Remove every service belonging to a stack.",
		InputSchema:  obj(map[string]*schema.Schema{"name": str("stack name")}, "name"),
		Capabilities: swarmManager, DefaultDeadline: midDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			if err := a.RemoveStack(ctx, argStr(args, "name")); err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok"}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "list_stacks", Title: "List stacks", Description: "List the distinct stack namespaces currently deployed.",
		InputSchema:  obj(map[string]*schema.Schema{}),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			stacks, err := a.ListStacks(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{"stacks": stacks}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "list_secrets", Title: "List secrets", Description: "List Swarm secrets (values are never returned).",
		InputSchema:  obj(map[string]*schema.Schema{}),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			secrets, err := a.ListSecrets(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{"secrets": secrets}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "create_secret", Title: "Create secret", Description: "Create a Swarm secret.",
		InputSchema:  obj(map[string]*schema.Schema{"name": str("secret name"), "data": str("secret payload, plaintext")}, "name", "data"),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			id, err := a.CreateSecret(ctx, argStr(args, "name"), []byte(argStr(args, "data")))
			if err != nil {
				return nil, err
			}
			return map[string]any{"id": id}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "remove_secret", Title: "Remove secret", Description: "Remove a Swarm secret by id.",
		InputSchema:  obj(map[string]*schema.Schema{"id": str("secret id")}, "id"),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			if err := a.RemoveSecret(ctx, argStr(args, "id")); err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok"}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "list_configs", Title: "List configs", Description: "List Swarm configs.",
		InputSchema:  obj(map[string]*schema.Schema{}),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			configs, err := a.ListConfigs(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{"configs": configs}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "create_config", Title: "Create config", Description: "Create a Swarm config.",
		InputSchema:  obj(map[string]*schema.Schema{"name": str("config name"), "data": str("config payload")}, "name", "data"),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			id, err := a.CreateConfig(ctx, argStr(args, "name"), []byte(argStr(args, "data")))
			if err != nil {
				return nil, err
			}
			return map[string]any{"id": id}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "remove_config", Title: "Remove config", Description: "Remove a Swarm config by id.",
		InputSchema:  obj(map[string]*schema.Schema{"id": str("config id")}, "id"),
		Capabilities: swarmManager, DefaultDeadline: shortDeadline,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			if err := a.RemoveConfig(ctx, argStr(args, "id")); err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok"}, nil
		},
	})

	b.Tool(ToolDef{
		Name: "list_events", Title: "List events", Description: "Collect a bounded window of Docker events (no follow mode).",
		InputSchema:  obj(map[string]*schema.Schema{"type": str("event type filter, e.g. container")}),
		Capabilities: engineOnly, DefaultDeadline: shortDeadline, Idempotent: true,
		Handler: func(ctx context.Context, a *dockeradapter.Adapter, args map[string]any) (any, error) {
			filters := map[string][]string{}
			if t := argStr(args, "type"); t != "" {
				filters["type"] = []string{t}
			}
			events, err := a.Events(ctx, filters)
			if err != nil {
				return nil, err
			}
			return map[string]any{"events": events}, nil
		},
	})

	return b
}
