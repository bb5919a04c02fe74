package pure

import (
	"math/big"
	"slices"
)

// Definition is a named recurrence over arbitrary precision integers together
// with its base cases.
type Definition struct {
	Name       string
	Seeds      map[int]*big.Int
	Recurrence Recurrence[*big.Int]
}

// NewEvaluator creates a fresh Evaluator for the definition.
func (d Definition) NewEvaluator(opts ...Option) (*Evaluator[*big.Int], error) {
	return New(d.seeds(), d.Recurrence, opts...)
}

// NewEvaluatorWithTable creates an Evaluator for the definition on top of table.
func (d Definition) NewEvaluatorWithTable(table Table[*big.Int], opts ...Option) (*Evaluator[*big.Int], error) {
	return NewWithTable(table, d.seeds(), d.Recurrence, opts...)
}

// seeds copies the seed values so evaluators never share them with the catalog.
func (d Definition) seeds() map[int]*big.Int {
	out := make(map[int]*big.Int, len(d.Seeds))
	for n, v := range d.Seeds {
		out[n] = new(big.Int).Set(v)
	}
	return out
}

// linear builds f(n) = sum(coeffs[i] * f(n-1-i)).
func linear(coeffs ...int64) Recurrence[*big.Int] {
	return func(n int, at Lookup[*big.Int]) (*big.Int, error) {
		sum := new(big.Int)
		term := new(big.Int)
		for i, c := range coeffs {
			if c == 0 {
				continue
			}
			v, err := at(n - 1 - i)
			if err != nil {
				return nil, err
			}
			sum.Add(sum, term.Mul(v, big.NewInt(c)))
		}
		return sum, nil
	}
}

func seedsOf(values ...int64) map[int]*big.Int {
	m := make(map[int]*big.Int, len(values))
	for i, v := range values {
		m[i] = big.NewInt(v)
	}
	return m
}

var definitions = map[string]Definition{
	"fibonacci": {
		Name:       "fibonacci",
		Seeds:      seedsOf(0, 1),
		Recurrence: linear(1, 1),
	},
	"lucas": {
		Name:       "lucas",
		Seeds:      seedsOf(2, 1),
		Recurrence: linear(1, 1),
	},
	"pell": {
		Name:       "pell",
		Seeds:      seedsOf(0, 1),
		Recurrence: linear(2, 1),
	},
	"jacobsthal": {
		Name:       "jacobsthal",
		Seeds:      seedsOf(0, 1),
		Recurrence: linear(1, 2),
	},
	"tribonacci": {
		Name:       "tribonacci",
		Seeds:      seedsOf(0, 0, 1),
		Recurrence: linear(1, 1, 1),
	},
	"padovan": {
		Name:       "padovan",
		Seeds:      seedsOf(1, 1, 1),
		Recurrence: linear(0, 1, 1),
	},
	"factorial": {
		Name:  "factorial",
		Seeds: seedsOf(1),
		Recurrence: func(n int, at Lookup[*big.Int]) (*big.Int, error) {
			prev, err := at(n - 1)
			if err != nil {
				return nil, err
			}
			return new(big.Int).Mul(prev, big.NewInt(int64(n))), nil
		},
	},
	// C(n) = C(n-1) * 2(2n-1) / (n+1); the division is always exact.
	"catalan": {
		Name:  "catalan",
		Seeds: seedsOf(1),
		Recurrence: func(n int, at Lookup[*big.Int]) (*big.Int, error) {
			prev, err := at(n - 1)
			if err != nil {
				return nil, err
			}
			v := new(big.Int).Mul(prev, big.NewInt(int64(2*(2*n-1))))
			return v.Quo(v, big.NewInt(int64(n+1))), nil
		},
	},
}

// LookupDefinition returns the catalog entry called name.
func LookupDefinition(name string) (Definition, bool) {
	d, ok := definitions[name]
	return d, ok
}

// Definitions returns every catalog entry ordered by name.
func Definitions() []Definition {
	names := DefinitionNames()
	defs := make([]Definition, len(names))
	for i, name := range names {
		defs[i] = definitions[name]
	}
	return defs
}

// DefinitionNames returns the catalog names in sorted order.
func DefinitionNames() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
