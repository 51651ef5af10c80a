// Package store provides the backing-store implementations for the
// budget engine: file-backed key-value slots for the local variant and
// database rows for the server variant.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"bucketeer/internal/budget"
	"bucketeer/internal/logger"
)

// Slot file names carry the same version suffix as the original
// storage keys so older exports stay recognizable.
const (
	snapshotSlot = "budget-buckets-state-v1.json"
	expensesSlot = "budget-expenses-v1.json"
)

// FileStore persists the snapshot and expense ledger as JSON files in
// a data directory, one slot per file. Loads never fail past this
// boundary: corruption is logged and replaced with defaults, and a
// payload that decoded with corrections is immediately re-saved so the
// stored copy heals itself.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a
// store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// LoadSnapshot reads and decodes the snapshot slot.
func (f *FileStore) LoadSnapshot() (budget.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, snapshotSlot))
	if os.IsNotExist(err) {
		return budget.NewSnapshot(), nil
	}
	if err != nil {
		logger.Get().Warnw("unable to read budget snapshot", "error", err)
		return budget.NewSnapshot(), nil
	}

	snap, changed, err := budget.DecodeSnapshot(data)
	if err != nil {
		logger.Get().Warnw("unable to load saved budget data", "error", err)
		return budget.NewSnapshot(), nil
	}
	if changed {
		if err := f.SaveSnapshot(snap); err != nil {
			logger.Get().Warnw("unable to heal budget snapshot", "error", err)
		}
	}
	return snap, nil
}

// SaveSnapshot encodes and writes the snapshot slot atomically.
func (f *FileStore) SaveSnapshot(snap budget.Snapshot) error {
	data, err := budget.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.writeSlot(snapshotSlot, data)
}

// LoadExpenses reads and decodes the expense ledger slot.
func (f *FileStore) LoadExpenses() ([]budget.Expense, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, expensesSlot))
	if os.IsNotExist(err) {
		return []budget.Expense{}, nil
	}
	if err != nil {
		logger.Get().Warnw("unable to read expenses", "error", err)
		return []budget.Expense{}, nil
	}

	expenses, changed, err := budget.DecodeExpenses(data)
	if err != nil {
		logger.Get().Warnw("unable to load saved expenses", "error", err)
		return []budget.Expense{}, nil
	}
	if changed {
		if err := f.SaveExpenses(expenses); err != nil {
			logger.Get().Warnw("unable to heal expense ledger", "error", err)
		}
	}
	return expenses, nil
}

// SaveExpenses encodes and writes the expense ledger slot atomically.
func (f *FileStore) SaveExpenses(expenses []budget.Expense) error {
	data, err := budget.EncodeExpenses(expenses)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	return f.writeSlot(expensesSlot, data)
}

// writeSlot writes via a temp file and rename so a crashed write never
// leaves a half-written slot.
func (f *FileStore) writeSlot(slot string, data []byte) error {
	path := filepath.Join(f.dir, slot)
	tmp, err := os.CreateTemp(f.dir, slot+".tmp-*")
	if err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}
