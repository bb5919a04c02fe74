// Package effects is the effect core the recurrence services are built on.
//
// Side effects such as logging, goroutine spawning and serving named
// evaluators are delegated to handlers that live in a context.Context. A
// handler is registered with one of the WithXxxEffectHandler functions, which
// return the derived context and a teardown. Code that needs the effect calls
// PerformResumableEffect (when it needs an answer) or FireAndForgetEffect.
//
// Handlers run on their own goroutines. Partitioned handlers hash the payload's
// PartitionKey to pick a worker, so payloads sharing a key are handled in
// order. A teardown handles whatever is still queued, waits for the workers
// and only then releases the handler's resources.
//
// Calling an effect without a registered handler panics: it is a wiring
// mistake, not a runtime condition.
//
// Example:
//
//	ctx, endLog := log.WithZapEffectHandler(ctx, 16, logger)
//	defer endLog()
//
//	ctx, endRec := recurrence.WithEffectHandler(ctx, 16, 4, evaluators)
//	defer endRec()
//
//	v, err := recurrence.EffectEvaluate[*big.Int](ctx, "fibonacci", 90)
package effects
