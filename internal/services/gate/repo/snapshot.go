// Package repo persists the gate state as a JSON snapshot on disk
package repo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"codewarden/internal/services/gate/domain"
)

// Snapshot reads and writes the gate status file
type Snapshot struct {
	path string
}

// NewSnapshot returns a Snapshot over path
func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Load reads the persisted status
// a missing file returns ok=false, a corrupt file returns an error
func (s *Snapshot) Load() (domain.Status, bool, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Status{}, false, nil
		}
		return domain.Status{}, false, fmt.Errorf("failed to read gate snapshot: %w", err)
	}
	var st domain.Status
	if err := json.Unmarshal(b, &st); err != nil {
		return domain.Status{}, false, fmt.Errorf("failed to decode gate snapshot: %w", err)
	}
	if !st.State.Valid() {
		return domain.Status{}, false, fmt.Errorf("gate snapshot has unknown state %q", st.State)
	}
	return st, true, nil
}

// Save writes the status atomically via temp file and rename
func (s *Snapshot) Save(st domain.Status) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode gate snapshot: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create gate snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".gate-*")
	if err != nil {
		return fmt.Errorf("failed to create gate temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write gate snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close gate temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace gate snapshot: %w", err)
	}
	return nil
}
