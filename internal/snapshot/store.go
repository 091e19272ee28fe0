package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/budgetdash-dev/budgetdash/internal/model"
)

// SaveFile writes a snapshot atomically: the CSV is written to a temp
// file next to path and renamed into place, so a crash mid-write never
// leaves a corrupt snapshot behind.
func SaveFile(path string, txns []model.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, txns); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// LoadFile reads a snapshot from path. A missing file is not an error:
// it returns (nil, false, nil) so a fresh session starts empty.
func LoadFile(path string) ([]model.Transaction, bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &Error{Reason: "opening snapshot", Err: err}
	}
	defer f.Close()

	txns, err := Read(f)
	if err != nil {
		return nil, false, err
	}
	return txns, true, nil
}
