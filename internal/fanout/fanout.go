// Package fanout implements the Concurrency Coordinator: bounded-parallelism
// fan-out over a set of targets, each with its own deadline, aggregating
// results with first-class partial failure (§4.G). This is the one place in
// the gateway where true Go concurrency discipline matters; the teacher's
// single hard-coded 30s context.WithTimeout calls generalize here into
// per-target timeouts plus a global semaphore-bounded ceiling.
package fanout

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dockermcp/gateway/internal/errs"
)

// Success is one successful per-target result.
type Success[T any] struct {
	Target string
	Value  T
}

// Failure is one failed per-target result.
type Failure struct {
	Target string
	Kind   errs.Kind
	Message string
}

// Aggregate is the partial-failure aggregate returned by Fanout. For every
// target, exactly one of Successes or Failures contains a matching entry,
// and both slices preserve input target order relative to each other.
type Aggregate[T any] struct {
	Successes []Success[T]
	Failures  []Failure
	Partial   bool
}

// Op is the per-target operation a Fanout call applies.
type Op[T any] func(ctx context.Context, target string) (T, error)

// Coordinator bounds the number of concurrent Docker calls across the whole
// process (§5 backpressure); each Fanout call additionally bounds its own
// per-call parallelism.
type Coordinator struct {
	global *semaphore.Weighted
}

// NewCoordinator builds a Coordinator with the given global concurrency ceiling.
func NewCoordinator(globalMaxConcurrent int64) *Coordinator {
	return &Coordinator{global: semaphore.NewWeighted(globalMaxConcurrent)}
}

// Fanout applies op to every target with bounded parallelism maxParallel,
// each call getting its own perTargetDeadline, and an overall ctx whose
// cancellation aborts all outstanding work. A failure on one target never
// cancels the others.
func Fanout[T any](ctx context.Context, c *Coordinator, targets []string, perTargetDeadline time.Duration, maxParallel int, op Op[T]) Aggregate[T] {
	type slot struct {
		ok      bool
		value   T
		failure Failure
	}
	slots := make([]slot, len(targets))

	local := semaphore.NewWeighted(int64(maxParallel))
	var wg sync.WaitGroup

	for i, target := range targets {
		i, target := i, target
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := local.Acquire(ctx, 1); err != nil {
				slots[i] = slot{failure: Failure{Target: target, Kind: errs.Cancelled, Message: "fanout cancelled before dispatch"}}
				return
			}
			defer local.Release(1)

			if c != nil {
				if err := c.global.Acquire(ctx, 1); err != nil {
					slots[i] = slot{failure: Failure{Target: target, Kind: errs.Unavailable, Message: "global docker call concurrency limit reached"}}
					return
				}
				defer c.global.Release(1)
			}

			targetCtx, cancel := context.WithTimeout(ctx, perTargetDeadline)
			defer cancel()

			value, err := op(targetCtx, target)
			if err != nil {
				kind := errs.KindOf(err)
				slots[i] = slot{failure: Failure{Target: target, Kind: kind, Message: err.Error()}}
				return
			}
			slots[i] = slot{ok: true, value: value}
		}()
	}

	wg.Wait()

	agg := Aggregate[T]{}
	for i, target := range targets {
		if slots[i].ok {
			agg.Successes = append(agg.Successes, Success[T]{Target: target, Value: slots[i].value})
		} else {
			f := slots[i].failure
			if f.Target == "" {
				f = Failure{Target: target, Kind: errs.Internal, Message: "no result recorded"}
			}
			agg.Failures = append(agg.Failures, f)
		}
	}
	agg.Partial = len(agg.Failures) > 0
	return agg
}
