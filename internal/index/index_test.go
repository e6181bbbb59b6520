package index

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emirkaya/vaultpad/internal/domain"
	"github.com/emirkaya/vaultpad/internal/logger"
)

func fileItem(path string) domain.Item {
	return domain.Item{
		Name:        filepath.Base(path),
		FullPath:    path,
		Kind:        domain.KindFile,
		DisplayName: filepath.Base(path),
	}
}

// stepClock returns a clock that advances one second per call
func stepClock() func() time.Time {
	t := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestRecency(t *testing.T) *RecencyIndex {
	t.Helper()
	idx, err := NewRecencyIndex(filepath.Join(t.TempDir(), "history.json"), logger.Get())
	if err != nil {
		t.Fatalf("NewRecencyIndex() error = %v", err)
	}
	idx.now = stepClock()
	return idx
}

func newTestPins(t *testing.T) *PinIndex {
	t.Helper()
	idx, err := NewPinIndex(filepath.Join(t.TempDir(), "pinned.json"), logger.Get())
	if err != nil {
		t.Fatalf("NewPinIndex() error = %v", err)
	}
	idx.now = stepClock()
	return idx
}

func TestRecencyTouchOrdering(t *testing.T) {
	idx := newTestRecency(t)

	for _, p := range []string{"/store/a", "/store/b", "/store/c"} {
		if err := idx.Touch(fileItem(p)); err != nil {
			t.Fatalf("Touch(%s) error = %v", p, err)
		}
	}

	records := idx.Records()
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].FullPath != "/store/c" || records[2].FullPath != "/store/a" {
		t.Errorf("wrong order: %v, %v, %v",
			records[0].FullPath, records[1].FullPath, records[2].FullPath)
	}
}

func TestRecencyTouchExistingBumpsCount(t *testing.T) {
	idx := newTestRecency(t)

	item := fileItem("/store/a")
	if err := idx.Touch(item); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if err := idx.Touch(fileItem("/store/b")); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if err := idx.Touch(item); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	records := idx.Records()
	if len(records) != 2 {
		t.Fatalf("re-touch duplicated the record: %d entries", len(records))
	}
	if records[0].FullPath != "/store/a" {
		t.Errorf("re-touched item not at front: %s", records[0].FullPath)
	}
	if records[0].AccessCount != 2 {
		t.Errorf("AccessCount = %d, want 2", records[0].AccessCount)
	}
}

func TestRecencyBound(t *testing.T) {
	idx := newTestRecency(t)

	for i := 0; i < MaxRecency+1; i++ {
		if err := idx.Touch(fileItem(fmt.Sprintf("/store/item-%02d", i))); err != nil {
			t.Fatalf("Touch() error = %v", err)
		}
	}

	records := idx.Records()
	if len(records) != MaxRecency {
		t.Fatalf("got %d records, want %d", len(records), MaxRecency)
	}
	// the oldest access fell off the end
	for _, rec := range records {
		if rec.FullPath == "/store/item-00" {
			t.Error("oldest record survived past the bound")
		}
	}
}

func TestRecencyUpdatePath(t *testing.T) {
	idx := newTestRecency(t)

	if err := idx.Touch(fileItem("/store/Diary")); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	ok, err := idx.UpdatePath("/store/Diary", "/store/archive/Journal")
	if err != nil {
		t.Fatalf("UpdatePath() error = %v", err)
	}
	if !ok {
		t.Fatal("UpdatePath() did not find the record")
	}

	rec := idx.Records()[0]
	if rec.FullPath != "/store/archive/Journal" {
		t.Errorf("FullPath = %s", rec.FullPath)
	}
	if rec.Name != "Journal" {
		t.Errorf("cached name not refreshed: %s", rec.Name)
	}
}

func TestRecencyUpdatePathKeepsCustomName(t *testing.T) {
	idx := newTestRecency(t)

	if err := idx.Touch(fileItem("/store/Diary")); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	// simulate a record whose cached name drifted from the basename
	idx.records[0].Name = "My Diary"
	if err := saveRecords(idx.path, idx.records); err != nil {
		t.Fatalf("save error = %v", err)
	}

	if _, err := idx.UpdatePath("/store/Diary", "/store/Journal"); err != nil {
		t.Fatalf("UpdatePath() error = %v", err)
	}

	if got := idx.Records()[0].Name; got != "My Diary" {
		t.Errorf("drifted name was overwritten: %s", got)
	}
}

func TestRecencyRewritePrefix(t *testing.T) {
	idx := newTestRecency(t)

	paths := []string{
		"/store/docs/a",
		"/store/docs/deep/b",
		"/store/docs-other/c",
		"/store/docs",
	}
	for _, p := range paths {
		if err := idx.Touch(fileItem(p)); err != nil {
			t.Fatalf("Touch() error = %v", err)
		}
	}

	moved, err := idx.RewritePrefix("/store/docs", "/store/notes")
	if err != nil {
		t.Fatalf("RewritePrefix() error = %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}

	if !idx.Contains("/store/notes/a") || !idx.Contains("/store/notes/deep/b") {
		t.Error("descendants not rebased")
	}
	if !idx.Contains("/store/docs-other/c") {
		t.Error("sibling with shared name prefix was rebased")
	}
	if !idx.Contains("/store/docs") {
		t.Error("exact-path record rebased by prefix rewrite")
	}
}

func TestRecencyRemovePrefix(t *testing.T) {
	idx := newTestRecency(t)

	for _, p := range []string{"/store/docs/a", "/store/docs/b", "/store/other/c"} {
		if err := idx.Touch(fileItem(p)); err != nil {
			t.Fatalf("Touch() error = %v", err)
		}
	}

	removed, err := idx.RemovePrefix("/store/docs")
	if err != nil {
		t.Fatalf("RemovePrefix() error = %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if idx.Contains("/store/docs/a") {
		t.Error("record under removed prefix survived")
	}
	if !idx.Contains("/store/other/c") {
		t.Error("unrelated record removed")
	}
}

func TestRecencyWriteThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	idx, err := NewRecencyIndex(path, logger.Get())
	if err != nil {
		t.Fatalf("NewRecencyIndex() error = %v", err)
	}
	idx.now = stepClock()

	if err := idx.Touch(fileItem("/store/a")); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	reloaded, err := NewRecencyIndex(path, logger.Get())
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	records := reloaded.Records()
	if len(records) != 1 || records[0].FullPath != "/store/a" {
		t.Errorf("reloaded records = %+v", records)
	}
	if records[0].AccessCount != 1 {
		t.Errorf("AccessCount lost on reload: %d", records[0].AccessCount)
	}
}

// A hand-edited file with records out of order is re-sorted at load time;
// the newest access comes first without waiting for the next mutation.
func TestRecencyLoadSortsRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	unordered := []domain.HistoryRecord{
		{Name: "old", FullPath: "/store/old", LastAccessed: base, AccessCount: 1},
		{Name: "new", FullPath: "/store/new", LastAccessed: base.Add(time.Hour), AccessCount: 1},
		{Name: "mid", FullPath: "/store/mid", LastAccessed: base.Add(time.Minute), AccessCount: 1},
	}
	if err := saveRecords(path, unordered); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	idx, err := NewRecencyIndex(path, logger.Get())
	if err != nil {
		t.Fatalf("NewRecencyIndex() error = %v", err)
	}

	records := idx.Records()
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for _, want := range []struct {
		pos  int
		path string
	}{{0, "/store/new"}, {1, "/store/mid"}, {2, "/store/old"}} {
		if records[want.pos].FullPath != want.path {
			t.Errorf("records[%d] = %s, want %s", want.pos, records[want.pos].FullPath, want.path)
		}
	}
}

func TestPinLoadSortsRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pinned.json")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	unordered := []domain.PinnedRecord{
		{Name: "old", FullPath: "/store/old", PinnedAt: base},
		{Name: "new", FullPath: "/store/new", PinnedAt: base.Add(time.Hour)},
	}
	if err := saveRecords(path, unordered); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	idx, err := NewPinIndex(path, logger.Get())
	if err != nil {
		t.Fatalf("NewPinIndex() error = %v", err)
	}

	records := idx.Records()
	if len(records) != 2 || records[0].FullPath != "/store/new" {
		t.Errorf("records not sorted on load: %+v", records)
	}
}

func TestRecencyCorruptFileResets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	idx, err := NewRecencyIndex(path, logger.Get())
	if err != nil {
		t.Fatalf("NewRecencyIndex() error = %v", err)
	}
	if len(idx.Records()) != 0 {
		t.Errorf("corrupt index not reset: %+v", idx.Records())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read reset file: %v", err)
	}
	if string(data) == "{not json" {
		t.Error("corrupt file left on disk")
	}
}

func TestPinAndUnpin(t *testing.T) {
	idx := newTestPins(t)

	added, err := idx.Pin(fileItem("/store/a"))
	if err != nil {
		t.Fatalf("Pin() error = %v", err)
	}
	if !added {
		t.Fatal("first Pin() reported false")
	}

	added, err = idx.Pin(fileItem("/store/a"))
	if err != nil {
		t.Fatalf("Pin() error = %v", err)
	}
	if added {
		t.Error("re-pin reported true")
	}
	if len(idx.Records()) != 1 {
		t.Fatalf("re-pin duplicated the record")
	}

	removed, err := idx.Remove("/store/a")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if !removed {
		t.Error("Remove() did not find the pin")
	}
	if idx.Contains("/store/a") {
		t.Error("record still present after Remove")
	}
}

func TestPinKeepsOriginalTime(t *testing.T) {
	idx := newTestPins(t)

	if _, err := idx.Pin(fileItem("/store/a")); err != nil {
		t.Fatalf("Pin() error = %v", err)
	}
	first := idx.Records()[0].PinnedAt

	if _, err := idx.Pin(fileItem("/store/a")); err != nil {
		t.Fatalf("Pin() error = %v", err)
	}
	if !idx.Records()[0].PinnedAt.Equal(first) {
		t.Error("re-pin refreshed the pin time")
	}
}

func TestPinBound(t *testing.T) {
	idx := newTestPins(t)

	for i := 0; i < MaxPins+1; i++ {
		if _, err := idx.Pin(fileItem(fmt.Sprintf("/store/item-%02d", i))); err != nil {
			t.Fatalf("Pin() error = %v", err)
		}
	}

	records := idx.Records()
	if len(records) != MaxPins {
		t.Fatalf("got %d pins, want %d", len(records), MaxPins)
	}
	if idx.Contains("/store/item-00") {
		t.Error("oldest pin survived past the bound")
	}
	if records[0].FullPath != fmt.Sprintf("/store/item-%02d", MaxPins) {
		t.Errorf("newest pin not at front: %s", records[0].FullPath)
	}
}

func TestPinUpdatePath(t *testing.T) {
	idx := newTestPins(t)

	if _, err := idx.Pin(fileItem("/store/Diary")); err != nil {
		t.Fatalf("Pin() error = %v", err)
	}

	ok, err := idx.UpdatePath("/store/Diary", "/store/Journal")
	if err != nil {
		t.Fatalf("UpdatePath() error = %v", err)
	}
	if !ok {
		t.Fatal("UpdatePath() did not find the record")
	}

	rec := idx.Records()[0]
	if rec.FullPath != "/store/Journal" || rec.Name != "Journal" {
		t.Errorf("record = %+v", rec)
	}
}

func TestPinMissingFileStartsEmpty(t *testing.T) {
	idx, err := NewPinIndex(filepath.Join(t.TempDir(), "pinned.json"), logger.Get())
	if err != nil {
		t.Fatalf("NewPinIndex() error = %v", err)
	}
	if len(idx.Records()) != 0 {
		t.Errorf("fresh index not empty: %+v", idx.Records())
	}
	// an index that never mutated must not create its file
	if _, statErr := os.Stat(idx.path); !os.IsNotExist(statErr) {
		t.Error("index file created without a mutation")
	}
}
