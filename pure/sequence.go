package pure

import "iter"

// Cursor walks an Evaluator one index at a time. Its position is private to
// the cursor; the values come from the shared cache.
type Cursor[V any] struct {
	eval *Evaluator[V]
	n    int
}

// Cursor returns a cursor positioned at start. A negative start is clamped to 0.
func (e *Evaluator[V]) Cursor(start int) *Cursor[V] {
	if start < 0 {
		start = 0
	}
	return &Cursor[V]{eval: e, n: start}
}

// Index returns the current position.
func (c *Cursor[V]) Index() int { return c.n }

// Value evaluates the recurrence at the current position.
func (c *Cursor[V]) Value() (V, error) { return c.eval.Evaluate(c.n) }

// Next advances the cursor by one index.
func (c *Cursor[V]) Next() { c.n++ }

// Values yields (i, f(i)) for i = from, from+1, ... until the consumer stops
// or an evaluation fails. Use Cursor when the failure itself matters.
func (e *Evaluator[V]) Values(from int) iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for c := e.Cursor(from); ; c.Next() {
			v, err := c.Value()
			if err != nil || !yield(c.Index(), v) {
				return
			}
		}
	}
}
