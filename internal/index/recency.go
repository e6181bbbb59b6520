package index

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/emirkaya/vaultpad/internal/domain"
	"github.com/emirkaya/vaultpad/internal/logger"
)

// MaxRecency bounds the recently-opened list
const MaxRecency = 50

// RecencyIndex tracks the most recently opened items, newest first.
// Every mutation writes through to the backing JSON file.
type RecencyIndex struct {
	path    string
	records []domain.HistoryRecord
	log     logger.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewRecencyIndex loads the index from path. A missing file yields an
// empty index; a malformed file is reset to empty and the damage logged.
func NewRecencyIndex(path string, log logger.Logger) (*RecencyIndex, error) {
	if log == nil {
		log = logger.Get()
	}

	idx := &RecencyIndex{
		path: path,
		log:  log,
		now:  time.Now,
	}

	if err := loadRecords(path, &idx.records); err != nil {
		log.Warn("recency index unreadable, starting empty",
			"path", filepath.Base(path), "error", err)
		idx.records = nil
		if saveErr := saveRecords(path, []domain.HistoryRecord{}); saveErr != nil {
			return nil, fmt.Errorf("failed to reset recency index: %w", saveErr)
		}
	}

	// an edited or out-of-order file must not break the ordering guarantee
	idx.sortAndTrim()

	return idx, nil
}

// Touch records an access of item, moving it to the front. Existing
// entries keep their access count; new entries start at one. The list is
// truncated to MaxRecency after insertion.
func (r *RecencyIndex) Touch(item domain.Item) error {
	accessed := r.now().UTC()

	found := false
	for i := range r.records {
		if r.records[i].FullPath == item.FullPath {
			r.records[i].LastAccessed = accessed
			r.records[i].AccessCount++
			r.records[i].Name = item.DisplayName
			found = true
			break
		}
	}

	if !found {
		r.records = append(r.records, domain.HistoryRecord{
			Name:         item.DisplayName,
			FullPath:     item.FullPath,
			LastAccessed: accessed,
			AccessCount:  1,
		})
	}

	r.sortAndTrim()
	return saveRecords(r.path, r.records)
}

func (r *RecencyIndex) sortAndTrim() {
	sort.SliceStable(r.records, func(i, j int) bool {
		return r.records[i].LastAccessed.After(r.records[j].LastAccessed)
	})
	if len(r.records) > MaxRecency {
		r.records = r.records[:MaxRecency]
	}
}

// Remove drops the record for fullPath, reporting whether one existed
func (r *RecencyIndex) Remove(fullPath string) (bool, error) {
	for i := range r.records {
		if r.records[i].FullPath == fullPath {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return true, saveRecords(r.path, r.records)
		}
	}
	return false, nil
}

// Contains reports whether fullPath has a record
func (r *RecencyIndex) Contains(fullPath string) bool {
	for i := range r.records {
		if r.records[i].FullPath == fullPath {
			return true
		}
	}
	return false
}

// UpdatePath rewrites the record whose path matches oldPath exactly.
// The cached name follows the new path only when it still matched the
// old basename; a name the user never saw change stays as it was.
func (r *RecencyIndex) UpdatePath(oldPath, newPath string) (bool, error) {
	for i := range r.records {
		if r.records[i].FullPath != oldPath {
			continue
		}
		if r.records[i].Name == filepath.Base(oldPath) {
			r.records[i].Name = filepath.Base(newPath)
		}
		r.records[i].FullPath = newPath
		return true, saveRecords(r.path, r.records)
	}
	return false, nil
}

// RewritePrefix rebases every record under oldDir onto newDir, returning
// how many records moved
func (r *RecencyIndex) RewritePrefix(oldDir, newDir string) (int, error) {
	moved := 0
	for i := range r.records {
		if insideDir(r.records[i].FullPath, oldDir) {
			r.records[i].FullPath = rebase(r.records[i].FullPath, oldDir, newDir)
			moved++
		}
	}
	if moved == 0 {
		return 0, nil
	}
	return moved, saveRecords(r.path, r.records)
}

// RemovePrefix drops every record under dir, returning how many went
func (r *RecencyIndex) RemovePrefix(dir string) (int, error) {
	kept := r.records[:0]
	removed := 0
	for _, rec := range r.records {
		if insideDir(rec.FullPath, dir) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, saveRecords(r.path, r.records)
}

// Records returns a copy of the list, newest first
func (r *RecencyIndex) Records() []domain.HistoryRecord {
	out := make([]domain.HistoryRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Clear empties the index
func (r *RecencyIndex) Clear() error {
	r.records = nil
	return saveRecords(r.path, []domain.HistoryRecord{})
}
