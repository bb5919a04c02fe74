package pure

const (
	defaultRecursionLimit = 1 << 10
	defaultMaxDepth       = 1 << 20
)

type options struct {
	recursionLimit int
	maxDepth       int
}

// Option configures an Evaluator.
type Option func(*options)

// WithRecursionLimit sets the distance between the requested index and the
// cached prefix above which the evaluator fills the gap bottom-up before
// recursing. Values <= 0 keep the default.
func WithRecursionLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.recursionLimit = limit
		}
	}
}

// WithMaxDepth caps the recursion depth of a single evaluation. Exceeding it
// fails the call with ErrRecurrence. Values <= 0 keep the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		recursionLimit: defaultRecursionLimit,
		maxDepth:       defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
