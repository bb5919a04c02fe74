package concurrency

import (
	"context"
	"fmt"
	"sync"

	"github.com/on-the-ground/memo_ive_go/effects"
	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
	"github.com/on-the-ground/memo_ive_go/effects/log"
)

// WithEffectHandler installs a fire-and-forget concurrency effect handler.
//
// Effect(ctx, fns...) then spawns each function on its own goroutine under a
// supervisor that:
//   - cancels every child when the parent context is cancelled,
//   - recovers and logs a panicking child,
//   - joins all children when the handler is torn down, including those of
//     Effect calls still queued at that moment.
//
// The supervisor logs through the log effect, so a log handler must already
// be registered on ctx.
func WithEffectHandler(
	ctx context.Context,
	bufferSize int,
) (context.Context, func() context.Context) {
	sv := &supervisor{
		doneCh: make(chan struct{}),
	}
	sv.watchParentCancel(ctx)

	return effects.WithFireAndForgetEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectConcurrency,
		sv.spawnConcurrentChildren,
		// Runs once the queue is drained, so every spawn has already called wg.Add.
		func() {
			sv.waitChildren(ctx)
			close(sv.doneCh)
		},
	)
}

// Effect spawns fns through the concurrency handler in ctx.
func Effect(ctx context.Context, fns ...func(context.Context)) {
	effects.FireAndForgetEffect[Payload](ctx, effectmodel.EffectConcurrency, fns)
}

// Payload is the batch of functions one Effect call spawns.
type Payload []func(context.Context)

// supervisor tracks the children spawned by one concurrency handler.
type supervisor struct {
	wg     sync.WaitGroup
	mu     sync.Mutex
	cancel []context.CancelFunc
	doneCh chan struct{}
}

func (s *supervisor) watchParentCancel(parent context.Context) {
	go func() {
		select {
		case <-parent.Done():
			log.Effect(parent, log.LogInfo, "context cancelled, cancelling child routines", nil)
			s.mu.Lock()
			for _, cancelFn := range s.cancel {
				cancelFn()
			}
			s.mu.Unlock()
		case <-s.doneCh:
		}
	}()
}

// spawnConcurrentChildren returns once every child goroutine has started.
func (s *supervisor) spawnConcurrentChildren(parent context.Context, fns Payload) {
	var started sync.WaitGroup

	for _, fn := range fns {
		childCtx, cancel := context.WithCancel(context.Background())
		s.mu.Lock()
		s.cancel = append(s.cancel, cancel)
		s.mu.Unlock()

		s.wg.Add(1)
		started.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Effect(parent, log.LogError, "panic in child routine", map[string]any{
						"error": fmt.Sprint(r),
					})
				}
			}()
			started.Done()
			fn(childCtx)
		}()
	}

	started.Wait()
}

func (s *supervisor) waitChildren(ctx context.Context) {
	log.Effect(ctx, log.LogDebug, "waiting for child routines to finish", nil)
	s.wg.Wait()
	s.mu.Lock()
	for _, cancelFn := range s.cancel {
		cancelFn()
	}
	s.cancel = nil
	s.mu.Unlock()
	log.Effect(ctx, log.LogDebug, "child routines finished", nil)
}
