package recurrence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/on-the-ground/memo_ive_go/effects"
	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
	"github.com/on-the-ground/memo_ive_go/effects/log"
	"github.com/on-the-ground/memo_ive_go/pure"
	"github.com/sourcegraph/conc/pool"
)

// WithEffectHandler serves the given evaluators under their names.
//
// Payloads are partitioned by recurrence name across numWorkers workers, so
// requests for one recurrence are handled in arrival order. Every successful
// Evaluate publishes a TimeBoundedEvent on the source channel; events are
// dropped when nobody keeps up with the channel. The source channel is closed
// by the teardown.
//
// The handler logs through the log effect, so a log handler must already be
// registered on ctx.
func WithEffectHandler[V any](
	ctx context.Context,
	bufferSize int,
	numWorkers int,
	evaluators map[string]*pure.Evaluator[V],
) (context.Context, func() context.Context) {
	h := &handler[V]{
		evaluators: evaluators,
		events:     make(chan TimeBoundedEvent, max(bufferSize, 1)),
	}
	return effects.WithResumablePartitionableEffectHandler(
		ctx,
		effectmodel.NewEffectScopeConfig(bufferSize, numWorkers),
		effectmodel.EffectRecurrence,
		h.handle,
		h.close,
	)
}

type handler[V any] struct {
	evaluators map[string]*pure.Evaluator[V]

	mu     sync.RWMutex
	closed bool
	events chan TimeBoundedEvent
}

func (h *handler[V]) handle(ctx context.Context, payload Payload) (any, error) {
	switch p := payload.(type) {
	case Evaluate:
		v, err := h.evaluate(ctx, p)
		return v, err
	case Describe:
		d, err := h.describe(p)
		return d, err
	case Source:
		return (<-chan TimeBoundedEvent)(h.events), nil
	default:
		panic(fmt.Sprintf("unexpected recurrence payload: %T", payload))
	}
}

func (h *handler[V]) lookup(name string) (*pure.Evaluator[V], error) {
	e, ok := h.evaluators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecurrence, name)
	}
	return e, nil
}

func (h *handler[V]) evaluate(ctx context.Context, p Evaluate) (V, error) {
	var zero V
	e, err := h.lookup(p.Name)
	if err != nil {
		return zero, err
	}
	cached, err := e.Cached(p.Index)
	if err != nil {
		return zero, err
	}

	start := time.Now()
	v, err := e.Evaluate(p.Index)
	if err != nil {
		log.Effect(ctx, log.LogWarn, "evaluation failed", map[string]any{
			"recurrence": p.Name,
			"index":      p.Index,
			"error":      err.Error(),
		})
		return zero, err
	}

	ev := TimeBoundedEvent{Name: p.Name, Index: p.Index, Cached: cached, Span: effects.Since(start)}
	log.Effect(ctx, log.LogDebug, "evaluated", map[string]any{
		"recurrence": p.Name,
		"index":      p.Index,
		"cached":     cached,
		"elapsed":    ev.Span.Duration().String(),
	})
	h.publish(ev)
	return v, nil
}

func (h *handler[V]) describe(p Describe) (Description, error) {
	e, err := h.lookup(p.Name)
	if err != nil {
		return Description{}, err
	}
	indices, err := e.Indices()
	if err != nil {
		return Description{}, err
	}
	return Description{
		Name:     p.Name,
		ID:       e.ID(),
		Frontier: e.Frontier(),
		Indices:  indices,
	}, nil
}

func (h *handler[V]) publish(ev TimeBoundedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	select {
	case h.events <- ev:
	default:
	}
}

func (h *handler[V]) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.events)
	}
}

// EffectEvaluate returns the value of the named recurrence at index n.
func EffectEvaluate[V any](ctx context.Context, name string, n int) (V, error) {
	return perform[V](ctx, Evaluate{Name: name, Index: n})
}

// EffectEvaluateAll evaluates the named recurrence at every index, at most
// maxConcurrency at a time, and returns the values in the order of indices.
// The first failure cancels the outstanding evaluations and is returned.
func EffectEvaluateAll[V any](ctx context.Context, name string, indices []int, maxConcurrency int) ([]V, error) {
	values := make([]V, len(indices))
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(max(maxConcurrency, 1))
	for i, n := range indices {
		p.Go(func(ctx context.Context) error {
			v, err := EffectEvaluate[V](ctx, name, n)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

// EffectDescribe reports the cache state of the named recurrence.
func EffectDescribe(ctx context.Context, name string) (Description, error) {
	return perform[Description](ctx, Describe{Name: name})
}

// EffectSource returns the channel evaluation events are published on.
func EffectSource(ctx context.Context) (<-chan TimeBoundedEvent, error) {
	return perform[<-chan TimeBoundedEvent](ctx, Source{})
}

func perform[R any](ctx context.Context, payload Payload) (R, error) {
	var zero R
	resCh := effects.PerformResumableEffect[Payload, any](ctx, effectmodel.EffectRecurrence, payload)
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res, ok := <-resCh:
		if !ok {
			return zero, fmt.Errorf("recurrence handler stopped: %w", context.Canceled)
		}
		if res.Err != nil {
			return zero, res.Err
		}
		v, ok := res.Value.(R)
		if !ok {
			return zero, fmt.Errorf("unexpected result type %T for %T", res.Value, payload)
		}
		return v, nil
	}
}
