// Package repository persists the witnessed-milestone ledger.
//
// The durable format is a single JSON snapshot of witnessed keys. Flushes
// write to a temp file in the same directory and rename it over the target,
// so a flush either lands completely or not at all; a crash mid-flush
// leaves the previous snapshot intact and the next run re-detects and
// re-filters idempotently.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jnpushkin/nba-processor/pkg/metrics"
)

// snapshot is the on-disk shape. Versioned so the format can evolve
// without guessing at old files.
type snapshot struct {
	Version   int       `json:"version"`
	FlushedAt time.Time `json:"flushed_at"`
	Keys      []string  `json:"keys"`
}

const snapshotVersion = 1

// LedgerStore loads and flushes the witnessed-key set as a whole.
type LedgerStore struct {
	path string
}

// NewLedgerStore creates a file-backed ledger store with configuration options.
func NewLedgerStore(opts ...Option) *LedgerStore {
	s := &LedgerStore{
		path: defaultLedgerPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the snapshot file location.
func (s *LedgerStore) Path() string {
	return s.path
}

// Load reads the persisted key set. A missing file is an empty ledger,
// not an error: first runs start from nothing. Any other failure wraps
// ErrLedgerUnavailable and must abort the run.
func (s *LedgerStore) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLedgerUnavailable, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrLedgerUnavailable, s.path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrLedgerUnavailable, s.path, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %s has unsupported snapshot version %d",
			ErrLedgerUnavailable, s.path, snap.Version)
	}

	metrics.UpdateLedgerSize(len(snap.Keys))
	return snap.Keys, nil
}

// Flush durably replaces the snapshot with keys. Write-then-rename keeps
// the operation atomic on the same filesystem; the temp file is removed on
// any failure path. A failed flush wraps ErrLedgerUnavailable: the run
// must not claim completion without a successful flush.
func (s *LedgerStore) Flush(ctx context.Context, keys []string) error {
	start := time.Now()
	defer func() {
		metrics.RecordLedgerFlushDuration(float64(time.Since(start).Milliseconds()))
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrLedgerUnavailable, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrLedgerUnavailable, dir, err)
	}

	snap := snapshot{
		Version:   snapshotVersion,
		FlushedAt: time.Now().UTC(),
		Keys:      keys,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding snapshot: %w", ErrLedgerUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %w", ErrLedgerUnavailable, dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrLedgerUnavailable, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: syncing %s: %w", ErrLedgerUnavailable, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing %s: %w", ErrLedgerUnavailable, tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing %s: %w", ErrLedgerUnavailable, s.path, err)
	}

	metrics.UpdateLedgerSize(len(keys))
	return nil
}
