// Package repository persists the witnessed-milestone ledger.
package repository

// Default store configuration constants.
const (
	defaultLedgerPath = "witnessed_milestones.json"
)

// Option applies a configuration option to the LedgerStore.
type Option func(*LedgerStore)

// WithPath sets the snapshot file location.
func WithPath(path string) Option {
	return func(s *LedgerStore) {
		if path != "" {
			s.path = path
		}
	}
}
