// Package index implements the bounded, timestamp-ordered secondary
// indexes (recently opened and pinned) kept consistent with the store.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const indexFilePermissions = 0644

// loadRecords reads a JSON index file into out. A missing file leaves out
// empty; a malformed file returns an error so the caller can reset the
// index instead of failing construction.
func loadRecords(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read index file: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("malformed index file %s: %w", filepath.Base(path), err)
	}
	return nil
}

// saveRecords writes an index file through to disk
func saveRecords(path string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, indexFilePermissions); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}

// insideDir reports whether path lies strictly under dir
func insideDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// rebase rewrites path from oldDir to newDir, preserving the relative part
func rebase(path, oldDir, newDir string) string {
	rel, err := filepath.Rel(oldDir, path)
	if err != nil {
		return path
	}
	return filepath.Join(newDir, rel)
}
