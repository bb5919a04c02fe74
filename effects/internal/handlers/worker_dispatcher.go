package handlers

import (
	"context"
	"sync"

	effectmodel "github.com/on-the-ground/memo_ive_go/effects/internal/model"
)

// WorkerDispatcher hands out the channel a message must be sent on and owns
// the workers reading those channels.
//
// Workers never close the channels they read. Senders learn that the workers
// are gone from Done.
type WorkerDispatcher[T any] interface {
	GetChannelOf(msg T) chan<- T
	// Drain makes every worker handle what is already queued and return.
	Drain()
	// Done is closed once every worker has returned.
	Done() <-chan struct{}
}

type workerPool[T any] struct {
	channels []chan T
	route    func(T) int

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newWorkerPool[T any](
	ctx context.Context,
	numWorkers, bufferSize int,
	route func(T) int,
	handleFn func(context.Context, T),
	discard func(T),
) *workerPool[T] {
	if discard == nil {
		discard = func(T) {}
	}
	p := &workerPool[T]{
		channels: make([]chan T, max(numWorkers, 1)),
		route:    route,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	var running sync.WaitGroup
	for i := range p.channels {
		p.channels[i] = make(chan T, max(bufferSize, 0))
		running.Add(1)
		go func(ch chan T) {
			defer running.Done()
			p.work(ctx, ch, handleFn, discard)
		}(p.channels[i])
	}
	go func() {
		running.Wait()
		close(p.done)
	}()
	return p
}

// work handles messages until Drain or cancellation. Messages still queued
// when ctx is cancelled are discarded rather than handled.
func (p *workerPool[T]) work(
	ctx context.Context,
	ch chan T,
	handleFn func(context.Context, T),
	discard func(T),
) {
	for {
		select {
		case <-ctx.Done():
			flush(ch, discard)
			return
		case <-p.stop:
			flush(ch, func(msg T) { handleFn(ctx, msg) })
			return
		case msg := <-ch:
			if ctx.Err() != nil {
				discard(msg)
				continue
			}
			handleFn(ctx, msg)
		}
	}
}

func flush[T any](ch chan T, fn func(T)) {
	for {
		select {
		case msg := <-ch:
			fn(msg)
		default:
			return
		}
	}
}

func (p *workerPool[T]) GetChannelOf(msg T) chan<- T {
	return p.channels[p.route(msg)]
}

func (p *workerPool[T]) Drain() {
	p.stopOnce.Do(func() { close(p.stop) })
}

func (p *workerPool[T]) Done() <-chan struct{} {
	return p.done
}

// NewSingleQueue starts one worker that handles every message in send order.
func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
	discard func(T),
) WorkerDispatcher[T] {
	return newWorkerPool(ctx, 1, bufferSize, func(T) int { return 0 }, handleFn, discard)
}

// NewPartitionedQueue starts numWorkers workers. Messages with the same
// partition key always land on the same worker, in order.
func NewPartitionedQueue[T effectmodel.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
	discard func(T),
) WorkerDispatcher[T] {
	numWorkers = max(numWorkers, 1)
	return newWorkerPool(ctx, numWorkers, bufferSize, func(msg T) int {
		return getIndexByHash(msg, numWorkers)
	}, handleFn, discard)
}
