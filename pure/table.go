package pure

import (
	"fmt"
	"sync"
)

// Table is the grow-only cache behind an Evaluator.
//
// Implementations must be safe for concurrent use and must never replace an
// entry once it has been inserted.
type Table[V any] interface {
	Load(n int) (value V, ok bool, err error)
	InsertIfAbsent(n int, value V) (inserted bool, err error)
	// Indices returns every cached index in ascending order.
	Indices() ([]int, error)
}

var _ Table[int] = &MemoryTable[int]{}

// MemoryTable is a slice-backed Table. Slots are allocated up to the highest
// inserted index, so sparse indices cost one empty slot each.
type MemoryTable[V any] struct {
	mu    sync.RWMutex
	slots []slot[V]
	size  int
}

type slot[V any] struct {
	value V
	ok    bool
}

func NewMemoryTable[V any]() *MemoryTable[V] {
	return &MemoryTable[V]{}
}

func (t *MemoryTable[V]) Load(n int) (V, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n < 0 || n >= len(t.slots) || !t.slots[n].ok {
		var zero V
		return zero, false, nil
	}
	return t.slots[n].value, true, nil
}

func (t *MemoryTable[V]) InsertIfAbsent(n int, value V) (bool, error) {
	if n < 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidIndex, n)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if n < len(t.slots) {
		if t.slots[n].ok {
			return false, nil
		}
	} else {
		t.grow(n + 1)
	}
	t.slots[n] = slot[V]{value: value, ok: true}
	t.size++
	return true, nil
}

func (t *MemoryTable[V]) Indices() ([]int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	indices := make([]int, 0, t.size)
	for i, s := range t.slots {
		if s.ok {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

// Len returns the number of cached entries.
func (t *MemoryTable[V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

func (t *MemoryTable[V]) grow(length int) {
	if length <= cap(t.slots) {
		t.slots = t.slots[:length]
		return
	}
	newCap := 2 * cap(t.slots)
	if newCap < length {
		newCap = length
	}
	slots := make([]slot[V], length, newCap)
	copy(slots, t.slots)
	t.slots = slots
}
