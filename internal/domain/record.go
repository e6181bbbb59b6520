package domain

import "time"

// HistoryRecord tracks one recently opened item.
// Name caches the display name at the time of the last touch; it can go
// stale until a path-update event refreshes it.
type HistoryRecord struct {
	Name         string    `json:"name"`
	FullPath     string    `json:"full_path"`
	LastAccessed time.Time `json:"last_accessed"`
	AccessCount  int       `json:"access_count"`
}

// PinnedRecord tracks one pinned item
type PinnedRecord struct {
	Name     string    `json:"name"`
	FullPath string    `json:"full_path"`
	PinnedAt time.Time `json:"pinned_at"`
}
