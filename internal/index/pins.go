package index

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/emirkaya/vaultpad/internal/domain"
	"github.com/emirkaya/vaultpad/internal/logger"
)

// MaxPins bounds the pinned list
const MaxPins = 20

// PinIndex tracks explicitly pinned items, newest pin first
type PinIndex struct {
	path    string
	records []domain.PinnedRecord
	log     logger.Logger

	now func() time.Time
}

// NewPinIndex loads the index from path. A missing file yields an empty
// index; a malformed file is reset to empty and the damage logged.
func NewPinIndex(path string, log logger.Logger) (*PinIndex, error) {
	if log == nil {
		log = logger.Get()
	}

	idx := &PinIndex{
		path: path,
		log:  log,
		now:  time.Now,
	}

	if err := loadRecords(path, &idx.records); err != nil {
		log.Warn("pin index unreadable, starting empty",
			"path", filepath.Base(path), "error", err)
		idx.records = nil
		if saveErr := saveRecords(path, []domain.PinnedRecord{}); saveErr != nil {
			return nil, fmt.Errorf("failed to reset pin index: %w", saveErr)
		}
	}

	idx.sortAndTrim()

	return idx, nil
}

// Pin adds item to the front of the list. Pinning an already pinned item
// is a no-op and reports false; the original pin time is kept.
func (p *PinIndex) Pin(item domain.Item) (bool, error) {
	if p.Contains(item.FullPath) {
		return false, nil
	}

	p.records = append(p.records, domain.PinnedRecord{
		Name:     item.DisplayName,
		FullPath: item.FullPath,
		PinnedAt: p.now().UTC(),
	})

	p.sortAndTrim()
	return true, saveRecords(p.path, p.records)
}

func (p *PinIndex) sortAndTrim() {
	sort.SliceStable(p.records, func(i, j int) bool {
		return p.records[i].PinnedAt.After(p.records[j].PinnedAt)
	})
	if len(p.records) > MaxPins {
		p.records = p.records[:MaxPins]
	}
}

// Remove unpins fullPath, reporting whether it was pinned
func (p *PinIndex) Remove(fullPath string) (bool, error) {
	for i := range p.records {
		if p.records[i].FullPath == fullPath {
			p.records = append(p.records[:i], p.records[i+1:]...)
			return true, saveRecords(p.path, p.records)
		}
	}
	return false, nil
}

// Contains reports whether fullPath is pinned
func (p *PinIndex) Contains(fullPath string) bool {
	for i := range p.records {
		if p.records[i].FullPath == fullPath {
			return true
		}
	}
	return false
}

// UpdatePath rewrites the record whose path matches oldPath exactly,
// refreshing the cached name only when it still matched the old basename
func (p *PinIndex) UpdatePath(oldPath, newPath string) (bool, error) {
	for i := range p.records {
		if p.records[i].FullPath != oldPath {
			continue
		}
		if p.records[i].Name == filepath.Base(oldPath) {
			p.records[i].Name = filepath.Base(newPath)
		}
		p.records[i].FullPath = newPath
		return true, saveRecords(p.path, p.records)
	}
	return false, nil
}

// RewritePrefix rebases every record under oldDir onto newDir
func (p *PinIndex) RewritePrefix(oldDir, newDir string) (int, error) {
	moved := 0
	for i := range p.records {
		if insideDir(p.records[i].FullPath, oldDir) {
			p.records[i].FullPath = rebase(p.records[i].FullPath, oldDir, newDir)
			moved++
		}
	}
	if moved == 0 {
		return 0, nil
	}
	return moved, saveRecords(p.path, p.records)
}

// RemovePrefix drops every record under dir
func (p *PinIndex) RemovePrefix(dir string) (int, error) {
	kept := p.records[:0]
	removed := 0
	for _, rec := range p.records {
		if insideDir(rec.FullPath, dir) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	p.records = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, saveRecords(p.path, p.records)
}

// Records returns a copy of the list, newest pin first
func (p *PinIndex) Records() []domain.PinnedRecord {
	out := make([]domain.PinnedRecord, len(p.records))
	copy(out, p.records)
	return out
}

// Clear empties the index
func (p *PinIndex) Clear() error {
	p.records = nil
	return saveRecords(p.path, []domain.PinnedRecord{})
}
