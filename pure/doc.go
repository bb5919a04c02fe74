// Package pure memoizes recurrence relations over non-negative integer indices.
//
// An Evaluator is not just a cache in front of a function.
// It forces the developer to ask:
//
//	→ "Is this recurrence really pure?"
//	→ "Does every index reduce to strictly smaller ones?"
//
// The Evaluator answers the second question at runtime: a lookup of a negative
// index, or of an index that is not smaller than the one being computed, fails
// with ErrRecurrence instead of recursing forever.
//
// Features:
//   - Evaluate: each index is computed at most once per Evaluator, O(N) work up to index N.
//   - Write-once, grow-only Table with pluggable backends (see package tables).
//   - Journaled calls: a failing Evaluate leaves the cache untouched.
//   - Bottom-up fill when the requested index is far beyond the cached prefix.
//   - Cursor and Values for generator-style iteration.
//   - A catalog of classic integer sequences over math/big.
//
// Example:
//
//	fib, _ := pure.New(map[int]int{0: 0, 1: 1}, func(n int, at pure.Lookup[int]) (int, error) {
//	    a, err := at(n - 1)
//	    if err != nil {
//	        return 0, err
//	    }
//	    b, err := at(n - 2)
//	    return a + b, err
//	})
//	v, _ := fib.Evaluate(10) // 55
//
// WARNING: Do not memoize impure recurrences (e.g., those depending on time, I/O, etc).
package pure
