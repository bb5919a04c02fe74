package tables_test

import (
	"testing"

	"github.com/on-the-ground/memo_ive_go/pure"
	"github.com/on-the-ground/memo_ive_go/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemDB_BasicOperations(t *testing.T) {
	table, err := tables.NewMemDB[string]()
	require.NoError(t, err)

	// InsertIfAbsent (new)
	inserted, err := table.InsertIfAbsent(300, "three hundred")
	assert.NoError(t, err)
	assert.True(t, inserted)

	// InsertIfAbsent (existing)
	inserted, err = table.InsertIfAbsent(300, "overwritten")
	assert.NoError(t, err)
	assert.False(t, inserted)

	// Load (existing)
	val, ok, err := table.Load(300)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "three hundred", val)

	// Load (missing)
	_, ok, err = table.Load(3)
	assert.NoError(t, err)
	assert.False(t, ok)

	// negative indices are rejected
	_, err = table.InsertIfAbsent(-2, "minus two")
	assert.ErrorIs(t, err, pure.ErrInvalidIndex)
}

func TestMemDB_IndicesAreNumericallyOrdered(t *testing.T) {
	table, err := tables.NewMemDB[int]()
	require.NoError(t, err)

	for _, n := range []int{1000, 2, 129, 0, 65536, 7} {
		_, err := table.InsertIfAbsent(n, n)
		require.NoError(t, err)
	}

	indices, err := table.Indices()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 7, 129, 1000, 65536}, indices)
}

func TestMemDB_BacksEvaluator(t *testing.T) {
	table, err := tables.NewMemDB[int]()
	require.NoError(t, err)

	calls := 0
	fib, err := pure.NewWithTable(table, map[int]int{0: 0, 1: 1}, func(n int, at pure.Lookup[int]) (int, error) {
		calls++
		a, err := at(n - 1)
		if err != nil {
			return 0, err
		}
		b, err := at(n - 2)
		return a + b, err
	})
	require.NoError(t, err)

	v, err := fib.Evaluate(10)
	require.NoError(t, err)
	assert.Equal(t, 55, v)
	assert.Equal(t, 9, calls)

	v, err = fib.Evaluate(10)
	require.NoError(t, err)
	assert.Equal(t, 55, v)
	assert.Equal(t, 9, calls)

	indices, err := table.Indices()
	require.NoError(t, err)
	assert.Len(t, indices, 11)
}
