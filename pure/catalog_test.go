package pure_test

import (
	"math/big"
	"testing"

	"github.com/on-the-ground/memo_ive_go/pure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstTerms(t *testing.T, name string, count int) []int64 {
	t.Helper()
	def, ok := pure.LookupDefinition(name)
	require.True(t, ok, name)
	e, err := def.NewEvaluator()
	require.NoError(t, err)

	terms := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		v, err := e.Evaluate(i)
		require.NoError(t, err, "%s(%d)", name, i)
		terms = append(terms, v.Int64())
	}
	return terms
}

func TestCatalog_FirstTerms(t *testing.T) {
	expected := map[string][]int64{
		"fibonacci":  {0, 1, 1, 2, 3, 5, 8, 13, 21, 34},
		"lucas":      {2, 1, 3, 4, 7, 11, 18, 29, 47, 76},
		"pell":       {0, 1, 2, 5, 12, 29, 70, 169, 408, 985},
		"jacobsthal": {0, 1, 1, 3, 5, 11, 21, 43, 85, 171},
		"tribonacci": {0, 0, 1, 1, 2, 4, 7, 13, 24, 44},
		"padovan":    {1, 1, 1, 2, 2, 3, 4, 5, 7, 9},
		"factorial":  {1, 1, 2, 6, 24, 120, 720, 5040, 40320, 362880},
		"catalan":    {1, 1, 2, 5, 14, 42, 132, 429, 1430, 4862},
	}
	assert.ElementsMatch(t, pure.DefinitionNames(), keysOf(expected))
	for name, want := range expected {
		assert.Equal(t, want, firstTerms(t, name, len(want)), name)
	}
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestCatalog_BigFibonacci(t *testing.T) {
	def, ok := pure.LookupDefinition("fibonacci")
	require.True(t, ok)
	e, err := def.NewEvaluator()
	require.NoError(t, err)

	v, err := e.Evaluate(20_000)
	require.NoError(t, err)

	a, b := big.NewInt(0), big.NewInt(1)
	for i := 0; i < 20_000; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	assert.Equal(t, 0, a.Cmp(v))

	// evaluators of one definition do not share seed values
	other, err := def.NewEvaluator()
	require.NoError(t, err)
	zero, err := other.Evaluate(0)
	require.NoError(t, err)
	zero.SetInt64(99)
	again, err := e.Evaluate(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again.Int64())
}

func TestCatalog_Unknown(t *testing.T) {
	_, ok := pure.LookupDefinition("collatz")
	assert.False(t, ok)
}

func TestCatalog_DefinitionsAreSortedByName(t *testing.T) {
	defs := pure.Definitions()
	require.Len(t, defs, len(pure.DefinitionNames()))
	for i, def := range defs {
		assert.Equal(t, pure.DefinitionNames()[i], def.Name)
		assert.NotNil(t, def.Recurrence)
	}
}
