package tables

import (
	"fmt"
	"slices"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/on-the-ground/memo_ive_go/pure"
)

const (
	entriesTable = "entries"
	idIndex      = "id"
)

type entry[V any] struct {
	Index int
	Value V
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			entriesTable: {
				Name: entriesTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:    idIndex,
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "Index"},
					},
				},
			},
		},
	}
}

var _ pure.Table[int] = MemDB[int]{}

// MemDB is a pure.Table stored in an in-memory go-memdb database.
type MemDB[V any] struct {
	db *memdb.MemDB
}

func NewMemDB[V any]() (MemDB[V], error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return MemDB[V]{}, err
	}
	return MemDB[V]{db: db}, nil
}

func (m MemDB[V]) Load(n int) (value V, ok bool, err error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(entriesTable, idIndex, n)
	if err != nil || raw == nil {
		return value, false, err
	}
	e, ok := raw.(*entry[V])
	if !ok {
		return value, false, fmt.Errorf("unexpected entry type: %T", raw)
	}
	return e.Value, true, nil
}

func (m MemDB[V]) InsertIfAbsent(n int, value V) (inserted bool, err error) {
	if n < 0 {
		return false, fmt.Errorf("%w: %d", pure.ErrInvalidIndex, n)
	}
	txn := m.db.Txn(true)
	defer txn.Abort()

	old, err := txn.First(entriesTable, idIndex, n)
	if err != nil {
		return false, err
	} else if old != nil {
		return false, nil
	}

	if err := txn.Insert(entriesTable, &entry[V]{Index: n, Value: value}); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

func (m MemDB[V]) Indices() ([]int, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(entriesTable, idIndex)
	if err != nil {
		return nil, err
	}
	var indices []int
	for raw := it.Next(); raw != nil; raw = it.Next() {
		indices = append(indices, raw.(*entry[V]).Index)
	}
	// the id index orders by encoded key, not numerically
	slices.Sort(indices)
	return indices, nil
}
