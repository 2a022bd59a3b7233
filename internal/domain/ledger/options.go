// Package ledger defines the witnessed-milestone ledger.
package ledger

// Default ledger configuration constants.
const (
	defaultInitialCapacity = 4096
)

type options struct {
	initialCapacity int
}

// Option applies a configuration option to the in-memory ledger.
type Option func(*options)

// WithInitialCapacity pre-sizes the witnessed set. Useful when restoring
// a large persisted ledger at startup.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialCapacity = n
		}
	}
}
