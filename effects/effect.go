package effects

import (
	"context"

	"github.com/on-the-ground/memo_ive_go/effects/internal/handlers"
	"github.com/on-the-ground/memo_ive_go/effects/internal/helper"
	"go.uber.org/zap"

	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
)

// SetLogger sets the logger that reports handler lifecycle at debug level and
// returns the previous one. A nil logger is ignored. The default discards
// everything.
func SetLogger(logger *zap.Logger) *zap.Logger {
	return handlers.SetLogger(logger)
}

// WithResumablePartitionableEffectHandler registers a resumable effect handler for a given effect enum.
//
// Payloads are routed to workers by hashing PartitionKey(), so effects that share
// a key are handled in order by one goroutine.
//
// Usage:
//
//	ctx, end := WithResumablePartitionableEffectHandler(ctx, config, MyEffectEnum, handleFn)
//	defer end()
func WithResumablePartitionableEffectHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	handler := handlers.NewPartitionableResumableHandler(ctx, config, handleFn, normalizeTeardown(teardown))
	return register(ctx, enum, handler, handler.EffectId, "resumable")
}

// PerformResumableEffect sends a payload to the resumable effect handler.
//
// The returned channel yields exactly one result, or is closed without one
// when the handler is closed or ctx is done before the effect is handled.
// Panics if no handler is registered for the given effect enum.
func PerformResumableEffect[P effectmodel.Partitionable, R any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) <-chan ResumableResult[R] {
	handler := helper.MustGetTypedHandler[handlers.ResumableHandler[P, R]](ctx, enum)
	return handler.PerformEffect(ctx, payload)
}

// ResumableResult is the value or error a resumable handler answers with.
type ResumableResult[R any] = handlers.ResumableResult[R]

// WithFireAndForgetEffectHandler registers a fire-and-forget effect handler for a given effect enum.
//
// The teardown handles every payload already queued before it returns.
func WithFireAndForgetEffectHandler[P any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	handler := handlers.NewFireAndForgetHandler(ctx, bufferSize, handleFn, normalizeTeardown(teardown))
	return register(ctx, enum, handler, handler.EffectId, "fire/forget")
}

// FireAndForgetEffect hands the payload to the handler registered for enum
// and returns without waiting.
//
// Panics if no handler is registered for the given enum.
func FireAndForgetEffect[P any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) {
	handler := helper.MustGetTypedHandler[handlers.FireAndForgetHandler[P]](ctx, enum)
	handler.FireAndForgetEffect(ctx, payload)
}

type closer interface{ Close() }

func register(
	ctx context.Context,
	enum effectmodel.EffectEnum,
	handler closer,
	effectId string,
	kind string,
) (context.Context, func() context.Context) {
	logger := handlers.Logger()
	ctxWith := context.WithValue(ctx, enum, handler)
	logger.Debug("created effect handler",
		zap.String("kind", kind),
		zap.String("effectId", effectId),
		zap.String("enum", string(enum)),
	)

	return ctxWith, func() context.Context {
		handler.Close()
		logger.Debug("closed effect handler",
			zap.String("kind", kind),
			zap.String("effectId", effectId),
			zap.String("enum", string(enum)),
		)
		return ctx
	}
}

// normalizeTeardown flattens optional teardown functions into a single callable.
//
// Accepts either 0 or 1 teardown functions. Panics if more than one is passed.
func normalizeTeardown(teardown []func()) func() {
	switch len(teardown) {
	case 1:
		return teardown[0]
	case 0:
		return func() {}
	default:
		panic("normalizeTeardown: only one or zero teardown functions allowed")
	}
}
