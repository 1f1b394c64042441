package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// FileAdapter persists the snapshot as a single indented JSON document.
// Save writes to a temp file in the same directory and renames it over the
// target, so readers see either the old document or the new one, never a
// partial write.
type FileAdapter struct {
	path string
}

func NewFileAdapter(path string) (*FileAdapter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	log.Printf("FileAdapter: using data file %s", path)
	return &FileAdapter{path: path}, nil
}

func (f *FileAdapter) Load(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run: nothing persisted yet.
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	snap := NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	return snap, nil
}

func (f *FileAdapter) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

func (f *FileAdapter) Durable() bool { return true }

func (f *FileAdapter) Close(ctx context.Context) error { return nil }
