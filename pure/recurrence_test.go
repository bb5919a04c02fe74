package pure_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/on-the-ground/memo_ive_go/pure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFib returns the canonical Fibonacci recurrence and a counter of its
// invocations per index.
func countingFib() (pure.Recurrence[int], func(n int) int, func() int) {
	var mu sync.Mutex
	calls := map[int]int{}
	rec := func(n int, at pure.Lookup[int]) (int, error) {
		mu.Lock()
		calls[n]++
		mu.Unlock()
		a, err := at(n - 1)
		if err != nil {
			return 0, err
		}
		b, err := at(n - 2)
		if err != nil {
			return 0, err
		}
		return a + b, nil
	}
	callsOf := func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		return calls[n]
	}
	total := func() int {
		mu.Lock()
		defer mu.Unlock()
		sum := 0
		for _, c := range calls {
			sum += c
		}
		return sum
	}
	return rec, callsOf, total
}

func newFib(t *testing.T, opts ...pure.Option) (*pure.Evaluator[int], func(int) int, func() int) {
	rec, callsOf, total := countingFib()
	fib, err := pure.New(map[int]int{0: 0, 1: 1}, rec, opts...)
	require.NoError(t, err)
	return fib, callsOf, total
}

func TestEvaluate_ConcreteScenario(t *testing.T) {
	fib, _, _ := newFib(t)

	v, err := fib.Evaluate(10)
	assert.NoError(t, err)
	assert.Equal(t, 55, v)

	v, err = fib.Evaluate(0)
	assert.NoError(t, err)
	assert.Equal(t, 0, v)

	v, err = fib.Evaluate(1)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestEvaluate_SeedsDoNotInvokeRecurrence(t *testing.T) {
	fib, _, total := newFib(t)

	for _, b := range []int{0, 1} {
		v, err := fib.Evaluate(b)
		assert.NoError(t, err)
		assert.Equal(t, b, v)
	}
	assert.Equal(t, 0, total())
}

func TestEvaluate_MatchesIterativeFibonacci(t *testing.T) {
	fib, _, _ := newFib(t)

	a, b := 0, 1
	for n := 0; n <= 90; n++ {
		v, err := fib.Evaluate(n)
		require.NoError(t, err)
		assert.Equal(t, a, v, "index %d", n)
		a, b = b, a+b
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	fib, callsOf, total := newFib(t)

	first, err := fib.Evaluate(30)
	require.NoError(t, err)
	afterFirst := total()
	assert.Equal(t, 29, afterFirst) // indices 2..30, once each

	second, err := fib.Evaluate(30)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, total())

	// smaller indices are already cached too
	_, err = fib.Evaluate(17)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, total())
	assert.Equal(t, 1, callsOf(17))
}

func TestEvaluate_CacheGrowsMonotonically(t *testing.T) {
	fib, _, _ := newFib(t)

	var before []int
	for _, n := range []int{5, 3, 12, 12, 8, 20} {
		_, err := fib.Evaluate(n)
		require.NoError(t, err)

		after, err := fib.Indices()
		require.NoError(t, err)
		assert.Subset(t, after, before)
		assert.Contains(t, after, n)
		assert.IsIncreasing(t, after)
		before = after
	}
	assert.Equal(t, 20, fib.Frontier())
}

func TestEvaluate_InvalidIndex(t *testing.T) {
	fib, _, total := newFib(t)

	_, err := fib.Evaluate(-1)
	assert.ErrorIs(t, err, pure.ErrInvalidIndex)

	_, err = fib.EvaluateAny(-1)
	assert.ErrorIs(t, err, pure.ErrInvalidIndex)

	_, err = fib.EvaluateAny(2.5)
	assert.ErrorIs(t, err, pure.ErrInvalidIndex)

	v, err := fib.EvaluateAny(10.0)
	assert.NoError(t, err)
	assert.Equal(t, 55, v)

	v, err = fib.EvaluateAny("12")
	assert.NoError(t, err)
	assert.Equal(t, 144, v)

	assert.Equal(t, 11, total())
}

func TestEvaluate_BelowBaseCases(t *testing.T) {
	rec, _, _ := countingFib()
	fib, err := pure.New(map[int]int{0: 0}, rec)
	require.NoError(t, err)

	_, err = fib.Evaluate(3)
	assert.ErrorIs(t, err, pure.ErrRecurrence)
}

func TestEvaluate_NotStrictlySmallerLookup(t *testing.T) {
	loop, err := pure.New(map[int]int{0: 1}, func(n int, at pure.Lookup[int]) (int, error) {
		return at(n)
	})
	require.NoError(t, err)

	_, err = loop.Evaluate(3)
	assert.ErrorIs(t, err, pure.ErrRecurrence)

	ahead, err := pure.New(map[int]int{0: 1}, func(n int, at pure.Lookup[int]) (int, error) {
		return at(n + 1)
	})
	require.NoError(t, err)

	_, err = ahead.Evaluate(3)
	assert.ErrorIs(t, err, pure.ErrRecurrence)
}

var errOdd = errors.New("seven is not allowed")

func failingAtSeven(n int, at pure.Lookup[int]) (int, error) {
	if n == 7 {
		return 0, errOdd
	}
	a, err := at(n - 1)
	if err != nil {
		return 0, err
	}
	b, err := at(n - 2)
	if err != nil {
		return 0, err
	}
	return a + b, nil
}

func TestEvaluate_FailureLeavesCacheUnchanged(t *testing.T) {
	for _, limit := range []int{1024, 2} {
		fib, err := pure.New(map[int]int{0: 0, 1: 1}, failingAtSeven, pure.WithRecursionLimit(limit))
		require.NoError(t, err)

		before, err := fib.Indices()
		require.NoError(t, err)

		_, err = fib.Evaluate(10)
		assert.ErrorIs(t, err, pure.ErrRecurrence)
		assert.ErrorIs(t, err, errOdd)

		after, err := fib.Indices()
		require.NoError(t, err)
		assert.Equal(t, before, after, "recursion limit %d", limit)

		v, err := fib.Evaluate(6)
		assert.NoError(t, err)
		assert.Equal(t, 8, v)
		assert.Equal(t, 6, fib.Frontier())
	}
}

func modFib(n int, at pure.Lookup[int]) (int, error) {
	a, err := at(n - 1)
	if err != nil {
		return 0, err
	}
	b, err := at(n - 2)
	if err != nil {
		return 0, err
	}
	return (a + b) % 1_000_000_007, nil
}

func TestEvaluate_LargeIndexFillsBottomUp(t *testing.T) {
	const n = 200_000
	fib, err := pure.New(map[int]int{0: 0, 1: 1}, modFib, pure.WithMaxDepth(64))
	require.NoError(t, err)

	v, err := fib.Evaluate(n)
	require.NoError(t, err)

	a, b := 0, 1
	for i := 0; i < n; i++ {
		a, b = b, (a+b)%1_000_000_007
	}
	assert.Equal(t, a, v)
	assert.Equal(t, n, fib.Frontier())
}

func TestEvaluate_DepthCapWithoutFill(t *testing.T) {
	fib, err := pure.New(
		map[int]int{0: 0, 1: 1},
		modFib,
		pure.WithRecursionLimit(1<<30),
		pure.WithMaxDepth(100),
	)
	require.NoError(t, err)

	_, err = fib.Evaluate(500)
	assert.ErrorIs(t, err, pure.ErrRecurrence)

	v, err := fib.Evaluate(50)
	assert.NoError(t, err)
	assert.Equal(t, 12586269025%1_000_000_007, v)
}

func TestEvaluate_ConcurrentQueriesComputeOnce(t *testing.T) {
	fib, callsOf, _ := newFib(t)

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for n := 90; n >= 0; n -= 1 + g%3 {
				_, err := fib.Evaluate(n)
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()

	for n := 2; n <= 90; n++ {
		assert.Equal(t, 1, callsOf(n), "index %d", n)
	}
	v, err := fib.Evaluate(90)
	assert.NoError(t, err)
	assert.Equal(t, 2880067194370816120, v)
}

func TestNew_InvalidArguments(t *testing.T) {
	_, err := pure.New(map[int]int{-1: 0}, modFib)
	assert.ErrorIs(t, err, pure.ErrInvalidIndex)

	_, err = pure.New[int](nil, nil)
	assert.Error(t, err)
}

func TestNew_SharedTableKeepsExistingEntries(t *testing.T) {
	table := pure.NewMemoryTable[int]()
	_, err := table.InsertIfAbsent(0, 100)
	require.NoError(t, err)

	e, err := pure.NewWithTable(table, map[int]int{0: 0, 1: 1}, modFib)
	require.NoError(t, err)

	v, err := e.Evaluate(0)
	assert.NoError(t, err)
	assert.Equal(t, 100, v)
	assert.NotEmpty(t, e.ID())
}

func TestCached(t *testing.T) {
	fib, _, _ := newFib(t)

	ok, err := fib.Cached(5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = fib.Evaluate(5)
	require.NoError(t, err)

	ok, err = fib.Cached(5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fib.Cached(-3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLen(t *testing.T) {
	fib, _, _ := newFib(t)

	n, err := fib.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = fib.Evaluate(9)
	require.NoError(t, err)

	n, err = fib.Len()
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}
