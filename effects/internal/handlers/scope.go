package handlers

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var scopeLogger atomic.Pointer[zap.Logger]

func init() {
	scopeLogger.Store(zap.NewNop())
}

// SetLogger replaces the logger used for scope lifecycle messages and returns
// the one it replaced. A nil logger is ignored.
func SetLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return scopeLogger.Load()
	}
	return scopeLogger.Swap(logger)
}

// Logger returns the logger used for scope lifecycle messages.
func Logger() *zap.Logger { return scopeLogger.Load() }

// effectScope owns a dispatcher and the teardown that releases it.
//
// Sends hold the read lock for their whole duration, so once Close has taken
// the write lock no message can enter the queues behind the drain.
type effectScope[T any] struct {
	EffectId   string
	dispatcher WorkerDispatcher[T]
	closeFn    func()

	mu     sync.RWMutex
	closed bool
}

// send queues msg and reports whether it was accepted.
func (es *effectScope[T]) send(ctx context.Context, msg T) bool {
	es.mu.RLock()
	defer es.mu.RUnlock()
	if es.closed {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-es.dispatcher.Done():
		return false
	case es.dispatcher.GetChannelOf(msg) <- msg:
		return true
	}
}

// Close handles every queued message, waits for the workers, then runs the
// teardown. Later calls are no-ops.
func (es *effectScope[T]) Close() {
	es.mu.Lock()
	if es.closed {
		es.mu.Unlock()
		return
	}
	es.closed = true
	es.mu.Unlock()

	es.dispatcher.Drain()
	<-es.dispatcher.Done()
	es.closeFn()
	Logger().Debug("effect scope closed", zap.String("effectId", es.EffectId))
}

func (es *effectScope[T]) dropped(payload any) {
	Logger().Warn("effect dropped: handler closed or context done",
		zap.String("effectId", es.EffectId),
		zap.Any("payload", payload),
	)
}

func newEffectScope[T any](
	dispatcher WorkerDispatcher[T],
	teardown func(),
) *effectScope[T] {
	return &effectScope[T]{
		EffectId:   uuid.New().String(),
		dispatcher: dispatcher,
		closeFn:    teardown,
	}
}
