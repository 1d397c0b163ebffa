package dockeradapter

import (
	"context"

	"github.com/docker/docker/api/types/events"
	"github.com/docker/docker/api/types/filters"

	"github.com/dockermcp/gateway/internal/errs"
)

// Event is the normalized shape of one Docker event.
type Event struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Actor  string `json:"actor"`
	Time   int64  `json:"time"`
}

// Events collects events matching the given filters until ctx's deadline is
// reached, returning a bounded slice (never a stream) per §4.A.
func (a *Adapter) Events(ctx context.Context, eventFilters map[string][]string) ([]Event, error) {
	f := filters.NewArgs()
	for key, values := range eventFilters {
		for _, v := range values {
			f.Add(key, v)
		}
	}

	msgCh, errCh := a.cli.Events(ctx, events.ListOptions{Filters: f})

	var out []Event
	for {
		select {
		case <-ctx.Done():
			return out, nil
		case err := <-errCh:
			if err != nil {
				return out, errs.FromDockerError(err)
			}
			return out, nil
		case msg, ok := <-msgCh:
			if !ok {
				return out, nil
			}
			out = append(out, Event{
				Type:   string(msg.Type),
				Action: string(msg.Action),
				Actor:  msg.Actor.ID,
				Time:   msg.Time,
			})
		}
	}
}
