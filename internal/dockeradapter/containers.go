package dockeradapter

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/dockermcp/gateway/internal/errs"
)

// ContainerSummary is the normalized, documented shape returned for each
// container — the Docker API's exact JSON is never exposed verbatim.
type ContainerSummary struct {
	ID     string            `json:"id"`
	Names  []string          `json:"names"`
	Image  string            `json:"image"`
	State  string            `json:"state"`
	Status string            `json:"status"`
	Labels map[string]string `json:"labels"`
	Ports  []string          `json:"ports"`
}

// ContainerDetail is the normalized shape for a single inspected container.
type ContainerDetail struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Image   string            `json:"image"`
	State   string            `json:"state"`
	Running bool              `json:"running"`
	Labels  map[string]string `json:"labels"`
}

// LifecycleAction enumerates the supported container lifecycle actions.
type LifecycleAction string

const (
	ActionStart   LifecycleAction = "start"
	ActionStop    LifecycleAction = "stop"
	ActionRestart LifecycleAction = "restart"
	ActionPause   LifecycleAction = "pause"
	ActionUnpause LifecycleAction = "unpause"
	ActionKill    LifecycleAction = "kill"
	ActionRemove  LifecycleAction = "remove"
)

// ListContainers lists containers matching the given label filters.
func (a *Adapter) ListContainers(ctx context.Context, labelFilters map[string]string, all bool, limit int) ([]ContainerSummary, error) {
	f := filters.NewArgs()
	for k, v := range labelFilters {
		f.Add("label", k+"="+v)
	}
	containers, err := a.cli.ContainerList(ctx, container.ListOptions{All: all, Limit: limit, Filters: f})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}

	out := make([]ContainerSummary, 0, len(containers))
	for _, c := range containers {
		ports := make([]string, 0, len(c.Ports))
		for _, p := range c.Ports {
			ports = append(ports, formatPort(p))
		}
		out = append(out, ContainerSummary{
			ID:     c.ID,
			Names:  c.Names,
			Image:  c.Image,
			State:  c.State,
			Status: c.Status,
			Labels: c.Labels,
			Ports:  ports,
		})
	}
	return out, nil
}

// GetContainer inspects a single container by id or name.
func (a *Adapter) GetContainer(ctx context.Context, idOrName string) (*ContainerDetail, error) {
	info, err := a.cli.ContainerInspect(ctx, idOrName)
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	name := info.Name
	running := false
	state := ""
	if info.State != nil {
		running = info.State.Running
		state = info.State.Status
	}
	var labels map[string]string
	if info.Config != nil {
		labels = info.Config.Labels
	}
	return &ContainerDetail{
		ID:      info.ID,
		Name:    name,
		Image:   info.Image,
		State:   state,
		Running: running,
		Labels:  labels,
	}, nil
}

// ContainerLifecycle performs the given lifecycle action on one container.
func (a *Adapter) ContainerLifecycle(ctx context.Context, idOrName string, action LifecycleAction) error {
	var err error
	switch action {
	case ActionStart:
		err = a.cli.ContainerStart(ctx, idOrName, container.StartOptions{})
	case ActionStop:
		err = a.cli.ContainerStop(ctx, idOrName, container.StopOptions{})
	case ActionRestart:
		err = a.cli.ContainerRestart(ctx, idOrName, container.StopOptions{})
	case ActionPause:
		err = a.cli.ContainerPause(ctx, idOrName)
	case ActionUnpause:
		err = a.cli.ContainerUnpause(ctx, idOrName)
	case ActionKill:
		err = a.cli.ContainerKill(ctx, idOrName, "SIGKILL")
	case ActionRemove:
		err = a.cli.ContainerRemove(ctx, idOrName, container.RemoveOptions{Force: false})
	default:
		return errs.New(errs.InvalidArgument, "unknown lifecycle action: "+string(action))
	}
	if err != nil {
		return errs.FromDockerError(err)
	}
	return nil
}

// LogOptions configures ContainerLogs.
type LogOptions struct {
	Tail       string
	Since      string
	Until      string
	Timestamps bool
}

// ContainerLogs returns a bounded (non-following) slice of container logs.
func (a *Adapter) ContainerLogs(ctx context.Context, idOrName string, opts LogOptions) (string, error) {
	rc, err := a.cli.ContainerLogs(ctx, idOrName, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       opts.Tail,
		Since:      opts.Since,
		Until:      opts.Until,
		Timestamps: opts.Timestamps,
		Follow:     false,
	})
	if err != nil {
		return "", errs.FromDockerError(err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return "", errs.FromDockerError(err)
	}
	return buf.String(), nil
}

// ExecOptions configures ContainerExec.
type ExecOptions struct {
	User    string
	Workdir string
	Env     []string
}

// ExecResult is the normalized outcome of a one-shot exec.
type ExecResult struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// ContainerExec runs argv inside the container and waits for it to finish.
func (a *Adapter) ContainerExec(ctx context.Context, idOrName string, argv []string, opts ExecOptions) (*ExecResult, error) {
	created, err := a.cli.ContainerExecCreate(ctx, idOrName, container.ExecOptions{
		Cmd:          argv,
		User:         opts.User,
		WorkingDir:   opts.Workdir,
		Env:          opts.Env,
		AttachStdout: true,
		AttachStderr: true,
		Tty:          false,
	})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}

	attach, err := a.cli.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{Tty: false})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	defer attach.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attach.Reader); err != nil {
		return nil, errs.FromDockerError(err)
	}

	inspect, err := a.cli.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return nil, errs.FromDockerError(err)
	}

	return &ExecResult{
		ExitCode: inspect.ExitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// ContainerStats returns a single point-in-time stats snapshot (no streaming).
func (a *Adapter) ContainerStats(ctx context.Context, idOrName string) (map[string]any, error) {
	resp, err := a.cli.ContainerStatsOneShot(ctx, idOrName)
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	defer resp.Body.Close()

	var raw map[string]any
	if err := decodeJSON(resp.Body, &raw); err != nil {
		return nil, errs.Wrap(errs.Internal, "failed to decode container stats", err)
	}
	return raw, nil
}

func formatPort(p types.Port) string {
	priv := strconv.Itoa(int(p.PrivatePort))
	if p.PublicPort == 0 {
		return priv + "/" + p.Type
	}
	return p.IP + ":" + strconv.Itoa(int(p.PublicPort)) + "->" + priv + "/" + p.Type
}
