package dockeradapter

import (
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/swarm"

	"github.com/dockermcp/gateway/internal/errs"
)

// NodeSummary is the normalized shape for one swarm node.
type NodeSummary struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Availability string `json:"availability"`
}

// TaskSummary is the normalized shape for one swarm task running on a node.
type TaskSummary struct {
	ID        string `json:"id"`
	ServiceID string `json:"service_id"`
	State     string `json:"state"`
	Message   string `json:"message,omitempty"`
}

// ListNodes lists all swarm nodes visible to this manager.
func (a *Adapter) ListNodes(ctx context.Context) ([]NodeSummary, error) {
	nodes, err := a.cli.NodeList(ctx, types.NodeListOptions{})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	out := make([]NodeSummary, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, summarizeNode(n))
	}
	return out, nil
}

// InspectNode inspects a single node by id.
func (a *Adapter) InspectNode(ctx context.Context, id string) (*NodeSummary, error) {
	n, _, err := a.cli.NodeInspectWithRaw(ctx, id)
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	summary := summarizeNode(n)
	return &summary, nil
}

// NodeTasks lists tasks scheduled on the given node.
func (a *Adapter) NodeTasks(ctx context.Context, nodeID string) ([]TaskSummary, error) {
	f := filtersWithField("node", nodeID)
	tasks, err := a.cli.TaskList(ctx, types.TaskListOptions{Filters: f})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	out := make([]TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskSummary{
			ID:        t.ID,
			ServiceID: t.ServiceID,
			State:     string(t.Status.State),
			Message:   t.Status.Message,
		})
	}
	return out, nil
}

// NodeStats returns a single point-in-time resource snapshot for a node,
// derived from its running tasks since the Docker API has no direct
// per-node stats endpoint. It is the fan-out target for the node_stats tool.
func (a *Adapter) NodeStats(ctx context.Context, nodeID string) (map[string]any, error) {
	tasks, err := a.NodeTasks(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	running := 0
	for _, t := range tasks {
		if t.State == string(swarm.TaskStateRunning) {
			running++
		}
	}
	return map[string]any{
		"node_id":       nodeID,
		"task_count":    len(tasks),
		"running_tasks": running,
	}, nil
}

func summarizeNode(n swarm.Node) NodeSummary {
	role := string(n.Spec.Role)
	status := string(n.Status.State)
	availability := string(n.Spec.Availability)
	hostname := n.Description.Hostname
	return NodeSummary{
		ID:           n.ID,
		Hostname:     hostname,
		Role:         role,
		Status:       status,
		Availability: availability,
	}
}
