package dockeradapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/docker/docker/api/types/filters"
	img "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"

	"github.com/dockermcp/gateway/internal/errs"
)

// ImageSummary is the normalized shape for one image.
type ImageSummary struct {
	ID       string   `json:"id"`
	RepoTags []string `json:"repo_tags"`
	Size     int64    `json:"size"`
}

// RegistryAuth carries credentials for a pull/push, passed per-call and
// never cached by the adapter (§4.A rule 4).
type RegistryAuth struct {
	Username string
	Password string
}

// PullReport is the terminal summary of an image pull (no streaming).
type PullReport struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// ListImages lists images matching the given filters.
func (a *Adapter) ListImages(ctx context.Context, labelFilters map[string]string) ([]ImageSummary, error) {
	f := filters.NewArgs()
	for k, v := range labelFilters {
		f.Add("label", k+"="+v)
	}
	images, err := a.cli.ImageList(ctx, img.ListOptions{Filters: f})
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	out := make([]ImageSummary, 0, len(images))
	for _, im := range images {
		out = append(out, ImageSummary{ID: im.ID, RepoTags: im.RepoTags, Size: im.Size})
	}
	return out, nil
}

// InspectImage inspects a single image.
func (a *Adapter) InspectImage(ctx context.Context, ref string) (*ImageSummary, error) {
	inspect, _, err := a.cli.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	return &ImageSummary{ID: inspect.ID, RepoTags: inspect.RepoTags, Size: inspect.Size}, nil
}

// PullImage pulls an image reference, consuming the progress stream itself
// and returning only a terminal summary (streaming pull output is out of
// scope for the core, per §4.A).
func (a *Adapter) PullImage(ctx context.Context, reference string, auth *RegistryAuth) (*PullReport, error) {
	opts := img.PullOptions{}
	if auth != nil {
		encoded, err := encodeAuth(auth)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidArgument, "invalid registry credentials", err)
		}
		opts.RegistryAuth = encoded
	}

	rc, err := a.cli.ImagePull(ctx, reference, opts)
	if err != nil {
		return nil, errs.FromDockerError(err)
	}
	defer rc.Close()

	if _, err := io.Copy(io.Discard, rc); err != nil {
		return nil, errs.FromDockerError(err)
	}

	return &PullReport{Reference: reference, Status: "pulled"}, nil
}

// RemoveImage removes an image by reference.
func (a *Adapter) RemoveImage(ctx context.Context, ref string, force bool) error {
	_, err := a.cli.ImageRemove(ctx, ref, img.RemoveOptions{Force: force})
	if err != nil {
		return errs.FromDockerError(err)
	}
	return nil
}

func encodeAuth(auth *RegistryAuth) (string, error) {
	cfg := registry.AuthConfig{Username: auth.Username, Password: auth.Password}
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
