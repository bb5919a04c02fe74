package tables

import (
	ristretto "github.com/dgraph-io/ristretto/v2"
	"github.com/on-the-ground/memo_ive_go/pure"
)

var _ pure.Table[int] = &Tiered[int]{}

// Tiered keeps a ristretto hot tier in front of a backing table.
//
// Ristretto may drop writes and evict entries at will, so the backing table
// stays the grow-only source of truth and every miss falls through to it.
type Tiered[V any] struct {
	cache   *ristretto.Cache[int, V]
	backing pure.Table[V]
}

func NewTiered[V any](backing pure.Table[V], cacheSize int) (*Tiered[V], error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config[int, V]{
		NumCounters: int64(10 * cacheSize), // keys to track frequency of, ~10x the capacity.
		MaxCost:     int64(cacheSize),      // every entry costs 1.
		BufferItems: 64,                    // number of keys per Get buffer.
	})
	if err != nil {
		return nil, err
	}
	return &Tiered[V]{cache: cache, backing: backing}, nil
}

func (t *Tiered[V]) Load(n int) (V, bool, error) {
	if v, ok := t.cache.Get(n); ok {
		return v, true, nil
	}
	v, ok, err := t.backing.Load(n)
	if err != nil || !ok {
		return v, ok, err
	}
	t.cache.Set(n, v, 1)
	return v, true, nil
}

func (t *Tiered[V]) InsertIfAbsent(n int, value V) (bool, error) {
	inserted, err := t.backing.InsertIfAbsent(n, value)
	if err != nil || !inserted {
		return inserted, err
	}
	t.cache.Set(n, value, 1)
	return true, nil
}

func (t *Tiered[V]) Indices() ([]int, error) {
	return t.backing.Indices()
}

// Wait blocks until buffered cache writes are applied.
func (t *Tiered[V]) Wait() {
	t.cache.Wait()
}

// Close stops the cache goroutines. The backing table is left untouched.
func (t *Tiered[V]) Close() {
	t.cache.Close()
}
