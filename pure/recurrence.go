package pure

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Lookup returns the value of the recurrence at index m, evaluating it if it
// is not cached yet.
type Lookup[V any] func(m int) (V, error)

// Recurrence defines the value at index n in terms of values at strictly
// smaller indices, reached through at.
//
// A Recurrence must be pure and must not mutate the values returned by at:
// they are shared with the cache.
type Recurrence[V any] func(n int, at Lookup[V]) (V, error)

// Evaluator memoizes a Recurrence over non-negative indices.
//
// Every index is computed at most once for the lifetime of the Evaluator, and
// the cache only grows. An Evaluator is safe for concurrent use.
type Evaluator[V any] struct {
	id       string
	table    Table[V]
	rec      Recurrence[V]
	opts     options
	flight   singleflight.Group
	mu       sync.Mutex
	frontier atomic.Int64
}

// New creates an Evaluator backed by a MemoryTable.
func New[V any](seeds map[int]V, rec Recurrence[V], opts ...Option) (*Evaluator[V], error) {
	return NewWithTable(NewMemoryTable[V](), seeds, rec, opts...)
}

// NewWithTable creates an Evaluator backed by table.
//
// Seeds are inserted into the table before the Evaluator is returned. A seed
// whose index is already present in the table is skipped, since entries are
// never overwritten.
func NewWithTable[V any](
	table Table[V],
	seeds map[int]V,
	rec Recurrence[V],
	opts ...Option,
) (*Evaluator[V], error) {
	if table == nil {
		return nil, errors.New("nil table")
	}
	if rec == nil {
		return nil, errors.New("nil recurrence")
	}
	for n, v := range seeds {
		if n < 0 {
			return nil, fmt.Errorf("seed: %w", invalidIndex(n))
		}
		if _, err := table.InsertIfAbsent(n, v); err != nil {
			return nil, tableErr(n, err)
		}
	}
	e := &Evaluator[V]{
		id:    uuid.New().String(),
		table: table,
		rec:   rec,
		opts:  newOptions(opts),
	}
	e.frontier.Store(-1)
	if err := e.advanceFrontier(); err != nil {
		return nil, err
	}
	return e, nil
}

// ID identifies the Evaluator instance.
func (e *Evaluator[V]) ID() string { return e.id }

// Frontier returns the largest index k such that every index in 0..k is cached,
// or -1 if index 0 is not cached.
func (e *Evaluator[V]) Frontier() int { return int(e.frontier.Load()) }

// Cached reports whether index n is in the cache.
func (e *Evaluator[V]) Cached(n int) (bool, error) {
	if n < 0 {
		return false, nil
	}
	_, ok, err := e.table.Load(n)
	if err != nil {
		return false, tableErr(n, err)
	}
	return ok, nil
}

// Indices returns the cached indices in ascending order.
func (e *Evaluator[V]) Indices() ([]int, error) {
	indices, err := e.table.Indices()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTable, err)
	}
	return indices, nil
}

// Len returns the number of cached indices.
func (e *Evaluator[V]) Len() (int, error) {
	indices, err := e.Indices()
	return len(indices), err
}

// Evaluate returns the value of the recurrence at index n.
//
// Cached values are returned without invoking the recurrence. A failing call
// leaves the cache as it was before the call.
func (e *Evaluator[V]) Evaluate(n int) (V, error) {
	var zero V
	if n < 0 {
		return zero, invalidIndex(n)
	}
	if v, ok, err := e.table.Load(n); err != nil {
		return zero, tableErr(n, err)
	} else if ok {
		return v, nil
	}

	res, err, _ := e.flight.Do(strconv.Itoa(n), func() (any, error) {
		return e.compute(n)
	})
	if err != nil {
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

// EvaluateAny is Evaluate for an index of any integer-like type. See IndexOf.
func (e *Evaluator[V]) EvaluateAny(x any) (V, error) {
	n, err := IndexOf(x)
	if err != nil {
		var zero V
		return zero, err
	}
	return e.Evaluate(n)
}

func (e *Evaluator[V]) compute(n int) (V, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var zero V
	// Another flight may have committed n since the caller's lookup.
	if v, ok, err := e.table.Load(n); err != nil {
		return zero, tableErr(n, err)
	} else if ok {
		return v, nil
	}

	run := &evaluation[V]{Evaluator: e, journal: newJournal[V]()}
	if frontier := e.Frontier(); n-frontier > e.opts.recursionLimit {
		run.fill(frontier+1, n)
	}
	v, err := run.eval(n, 0)
	if err != nil {
		return zero, err
	}
	if err := run.journal.commit(e.table); err != nil {
		return zero, err
	}
	if err := e.advanceFrontier(); err != nil {
		return zero, err
	}
	return v, nil
}

func (e *Evaluator[V]) advanceFrontier() error {
	f := e.frontier.Load()
	for {
		_, ok, err := e.table.Load(int(f + 1))
		if err != nil {
			return tableErr(int(f+1), err)
		}
		if !ok {
			break
		}
		f++
	}
	e.frontier.Store(f)
	return nil
}

// evaluation is the state of one compute call. It is only used under the
// Evaluator's lock.
type evaluation[V any] struct {
	*Evaluator[V]
	journal *journal[V]
}

// fill evaluates from..to-1 in ascending order so that later recursion only
// reaches cached neighbours. It stops at the first failure and leaves the
// failing index to the direct evaluation of the requested index.
func (r *evaluation[V]) fill(from, to int) {
	for i := from; i < to; i++ {
		if _, err := r.eval(i, 0); err != nil {
			return
		}
	}
}

func (r *evaluation[V]) eval(n, depth int) (V, error) {
	var zero V
	if v, ok := r.journal.load(n); ok {
		return v, nil
	}
	if v, ok, err := r.table.Load(n); err != nil {
		return zero, tableErr(n, err)
	} else if ok {
		return v, nil
	}
	if depth >= r.opts.maxDepth {
		return zero, recurrenceErr(n, "recursion deeper than %d", r.opts.maxDepth)
	}

	v, err := r.rec(n, func(m int) (V, error) {
		switch {
		case m < 0:
			return zero, recurrenceErr(n, "looked up index %d below the base cases", m)
		case m >= n:
			return zero, recurrenceErr(n, "looked up index %d, which is not smaller", m)
		}
		return r.eval(m, depth+1)
	})
	if err != nil {
		if errors.Is(err, ErrRecurrence) || errors.Is(err, ErrTable) {
			return zero, err
		}
		return zero, fmt.Errorf("%w: index %d: %w", ErrRecurrence, n, err)
	}
	r.journal.store(n, v)
	return v, nil
}
