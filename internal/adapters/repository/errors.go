package repository

import "errors"

// Sentinel kinds for ledger store errors.
var (
	// ErrLedgerUnavailable marks a failed ledger load or flush. Fatal for
	// the run: proceeding risks duplicate or lost milestone reporting.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
)
