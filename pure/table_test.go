package pure_test

import (
	"errors"
	"testing"

	"github.com/on-the-ground/memo_ive_go/pure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTable_WriteOnce(t *testing.T) {
	table := pure.NewMemoryTable[string]()

	inserted, err := table.InsertIfAbsent(3, "three")
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = table.InsertIfAbsent(3, "drei")
	require.NoError(t, err)
	assert.False(t, inserted)

	v, ok, err := table.Load(3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "three", v)
}

func TestMemoryTable_SparseIndices(t *testing.T) {
	table := pure.NewMemoryTable[int]()
	for _, n := range []int{9, 0, 4, 100} {
		_, err := table.InsertIfAbsent(n, n*n)
		require.NoError(t, err)
	}

	_, ok, err := table.Load(5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = table.Load(1000)
	require.NoError(t, err)
	assert.False(t, ok)

	indices, err := table.Indices()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 9, 100}, indices)
	assert.Equal(t, 4, table.Len())
}

func TestMemoryTable_NegativeIndex(t *testing.T) {
	table := pure.NewMemoryTable[int]()

	_, err := table.InsertIfAbsent(-1, 1)
	assert.ErrorIs(t, err, pure.ErrInvalidIndex)

	_, ok, err := table.Load(-1)
	assert.NoError(t, err)
	assert.False(t, ok)
}

var errDiskFull = errors.New("disk full")

// cappedTable refuses entries above max.
type cappedTable struct {
	*pure.MemoryTable[int]
	max int
}

func (c cappedTable) InsertIfAbsent(n int, v int) (bool, error) {
	if n > c.max {
		return false, errDiskFull
	}
	return c.MemoryTable.InsertIfAbsent(n, v)
}

func TestEvaluate_TableErrorsSurface(t *testing.T) {
	table := cappedTable{MemoryTable: pure.NewMemoryTable[int](), max: 5}
	fib, err := pure.NewWithTable(table, map[int]int{0: 0, 1: 1}, modFib)
	require.NoError(t, err)

	v, err := fib.Evaluate(5)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	_, err = fib.Evaluate(8)
	assert.ErrorIs(t, err, pure.ErrTable)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, 5, fib.Frontier())
}
