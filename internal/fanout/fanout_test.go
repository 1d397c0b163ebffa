package fanout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanout_PartialFailure(t *testing.T) {
	targets := []string{"a", "b", "c"}
	coord := NewCoordinator(16)

	agg := Fanout(context.Background(), coord, targets, 200*time.Millisecond, 4, func(ctx context.Context, target string) (string, error) {
		if target == "b" {
			return "", fmt.Errorf("boom on %s", target)
		}
		return "ok:" + target, nil
	})

	require.Len(t, agg.Successes, 2)
	require.Len(t, agg.Failures, 1)
	assert.True(t, agg.Partial)
	assert.Equal(t, "b", agg.Failures[0].Target)
}

func TestFanout_AllSucceed_NotPartial(t *testing.T) {
	targets := []string{"a", "b"}
	agg := Fanout(context.Background(), nil, targets, time.Second, 4, func(ctx context.Context, target string) (int, error) {
		return len(target), nil
	})
	assert.False(t, agg.Partial)
	assert.Len(t, agg.Failures, 0)
	assert.Len(t, agg.Successes, 2)
}

func TestFanout_PerTargetTimeout_DoesNotCancelSiblings(t *testing.T) {
	targets := []string{"slow", "fast"}
	agg := Fanout(context.Background(), nil, targets, 30*time.Millisecond, 4, func(ctx context.Context, target string) (string, error) {
		if target == "slow" {
			select {
			case <-time.After(200 * time.Millisecond):
				return "late", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		return "fast-result", nil
	})

	require.Len(t, agg.Failures, 1)
	require.Len(t, agg.Successes, 1)
	assert.Equal(t, "slow", agg.Failures[0].Target)
	assert.Equal(t, "fast", agg.Successes[0].Target)
}

func TestFanout_ResultOrderMatchesTargetOrder(t *testing.T) {
	targets := []string{"z", "a", "m"}
	agg := Fanout(context.Background(), nil, targets, time.Second, 4, func(ctx context.Context, target string) (string, error) {
		delay := time.Duration(0)
		if target == "z" {
			delay = 20 * time.Millisecond
		}
		time.Sleep(delay)
		return target, nil
	})

	require.Len(t, agg.Successes, 3)
	var order []string
	for _, s := range agg.Successes {
		order = append(order, s.Target)
	}
	assert.Equal(t, []string{"z", "a", "m"}, order)
}

func TestFanout_GlobalCeilingRejectsExcessWork(t *testing.T) {
	coord := NewCoordinator(1)
	start := make(chan struct{})
	release := make(chan struct{})

	go func() {
		Fanout(context.Background(), coord, []string{"hold"}, time.Second, 1, func(ctx context.Context, target string) (string, error) {
			close(start)
			<-release
			return "done", nil
		})
	}()
	<-start

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	agg := Fanout(ctx, coord, []string{"blocked"}, time.Second, 1, func(ctx context.Context, target string) (string, error) {
		return "unreached", nil
	})
	close(release)

	require.Len(t, agg.Failures, 1)
	assert.Equal(t, "blocked", agg.Failures[0].Target)
}
