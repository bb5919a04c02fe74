package handlers

import (
	"context"

	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
)

func NewPartitionableResumableHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancelFn := context.WithCancel(ctx)
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			NewPartitionedQueue(ctx, config.NumWorkers, config.BufferSize, resume(handleFn), abandon[P, R]),
			func() {
				teardown()
				cancelFn()
			},
		),
	}
}

// resume adapts handleFn to answer on the message's resume channel.
func resume[P effectmodel.Partitionable, R any](
	handleFn func(context.Context, P) (R, error),
) func(context.Context, ResumableEffectMessage[P, R]) {
	return func(ctx context.Context, msg ResumableEffectMessage[P, R]) {
		msg.ResumeCh <- ResumableResultFrom(handleFn(ctx, msg.Payload))
		close(msg.ResumeCh)
	}
}

// abandon answers a message that will never be handled by closing its
// resume channel without a result.
func abandon[P effectmodel.Partitionable, R any](msg ResumableEffectMessage[P, R]) {
	close(msg.ResumeCh)
}

type ResumableHandler[P effectmodel.Partitionable, R any] struct {
	*effectScope[ResumableEffectMessage[P, R]]
}

// PerformEffect queues payload and returns the channel its result arrives on.
// The channel is closed without a result when the effect is not handled.
func (rh ResumableHandler[P, R]) PerformEffect(ctx context.Context, payload P) <-chan ResumableResult[R] {
	// buffered so the worker never waits on the caller
	resumeCh := make(chan ResumableResult[R], 1)

	msg := ResumableEffectMessage[P, R]{
		Payload:  payload,
		ResumeCh: resumeCh,
	}
	if !rh.send(ctx, msg) {
		if ctx.Err() == nil {
			rh.dropped(payload)
		}
		close(resumeCh)
	}
	return resumeCh
}

// ResumableResult represents the result of handled effects.
type ResumableResult[T any] struct {
	Value T
	Err   error
}

func ResumableResultFrom[R any](res R, err error) ResumableResult[R] {
	return ResumableResult[R]{Value: res, Err: err}
}

type ResumableEffectMessage[P effectmodel.Partitionable, R any] struct {
	Payload  P
	ResumeCh chan ResumableResult[R]
}

func (rem ResumableEffectMessage[P, R]) PartitionKey() string {
	return rem.Payload.PartitionKey()
}
