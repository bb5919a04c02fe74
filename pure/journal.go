package pure

import "slices"

// journal stages the entries computed during one Evaluate call.
// Nothing reaches the table until the call has succeeded.
type journal[V any] struct {
	entries map[int]V
}

func newJournal[V any]() *journal[V] {
	return &journal[V]{entries: make(map[int]V)}
}

func (j *journal[V]) load(n int) (V, bool) {
	v, ok := j.entries[n]
	return v, ok
}

func (j *journal[V]) store(n int, v V) {
	j.entries[n] = v
}

// commit writes staged entries into the table in ascending index order.
func (j *journal[V]) commit(table Table[V]) error {
	indices := make([]int, 0, len(j.entries))
	for n := range j.entries {
		indices = append(indices, n)
	}
	slices.Sort(indices)
	for _, n := range indices {
		if _, err := table.InsertIfAbsent(n, j.entries[n]); err != nil {
			return tableErr(n, err)
		}
	}
	return nil
}
