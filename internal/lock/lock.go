// Package lock serializes access to a content store across processes.
// Two vaultpad instances mutating the same store would race the indexes,
// so every mutating command takes the store lock first.
package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// LockFileName is the name of the lock file inside the lock directory
	LockFileName = ".vaultpad.lock"
	// DefaultStaleTimeout is how old a foreign-host lock may grow before
	// it is treated as abandoned
	DefaultStaleTimeout = 30 * time.Minute
)

// HolderInfo identifies the process holding the store lock
type HolderInfo struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartTime time.Time `json:"start_time"`
	Operation string    `json:"operation,omitempty"`
}

// StoreLock is a file-based lock over one content store
type StoreLock struct {
	lockPath     string
	staleTimeout time.Duration
	info         *HolderInfo
}

// New creates a lock rooted in lockDir. An empty lockDir falls back to
// the vaultpad directory under the user config dir.
func New(lockDir string) (*StoreLock, error) {
	if lockDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config dir: %w", err)
		}
		lockDir = filepath.Join(configDir, "vaultpad")
	}

	if err := os.MkdirAll(lockDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	return &StoreLock{
		lockPath:     filepath.Join(lockDir, LockFileName),
		staleTimeout: DefaultStaleTimeout,
	}, nil
}

// SetStaleTimeout overrides the foreign-host staleness window
func (l *StoreLock) SetStaleTimeout(d time.Duration) {
	l.staleTimeout = d
}

// Acquire takes the lock, recording which operation holds it. Re-acquiring
// from the holding instance just relabels the operation. A stale lock
// (dead process, or a timed-out foreign host) is removed and taken over.
func (l *StoreLock) Acquire(operation string) error {
	if l.info != nil {
		existing, err := l.readHolder()
		if err == nil && l.isHeldByThisInstance(existing) {
			existing.Operation = operation
			if err := l.writeHolder(existing); err != nil {
				return err
			}
			// keep the in-memory copy in step with the file, or Release
			// would report the lock stolen
			l.info.Operation = operation
			return nil
		}
	}

	existing, err := l.readHolder()
	if err == nil {
		if !l.isStale(existing) {
			return &HeldError{Holder: existing, Reason: "store is locked by another process"}
		}
		if err := os.Remove(l.lockPath); err != nil {
			return fmt.Errorf("failed to remove stale lock: %w", err)
		}
	}

	hostname, _ := os.Hostname()
	info := &HolderInfo{
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartTime: time.Now(),
		Operation: operation,
	}

	file, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			// lost the race between the stale check and the create
			existing, readErr := l.readHolder()
			if readErr != nil {
				return fmt.Errorf("lock acquisition race: %w", err)
			}
			return &HeldError{Holder: existing, Reason: "store locked during acquisition"}
		}
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(info); err != nil {
		os.Remove(l.lockPath)
		return fmt.Errorf("failed to write lock info: %w", err)
	}

	l.info = info
	return nil
}

// Release drops the lock if this instance still owns it
func (l *StoreLock) Release() error {
	if l.info == nil {
		return nil
	}

	existing, err := l.readHolder()
	if err != nil {
		l.info = nil
		return nil
	}

	if !l.isHeldByThisInstance(existing) {
		l.info = nil
		return fmt.Errorf("lock was taken over by another process")
	}

	if err := os.Remove(l.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	l.info = nil
	return nil
}

// IsLocked reports whether a live lock exists
func (l *StoreLock) IsLocked() bool {
	info, err := l.readHolder()
	if err != nil {
		return false
	}
	return !l.isStale(info)
}

// Holder returns the current live holder
func (l *StoreLock) Holder() (*HolderInfo, error) {
	info, err := l.readHolder()
	if err != nil {
		return nil, err
	}
	if l.isStale(info) {
		return nil, fmt.Errorf("lock is stale")
	}
	return info, nil
}

// ForceRelease removes the lock file unconditionally. Only for recovering
// from a crashed holder.
func (l *StoreLock) ForceRelease() error {
	if err := os.Remove(l.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to force remove lock: %w", err)
	}
	l.info = nil
	return nil
}

func (l *StoreLock) readHolder() (*HolderInfo, error) {
	data, err := os.ReadFile(l.lockPath)
	if err != nil {
		return nil, err
	}

	var info HolderInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("invalid lock file format: %w", err)
	}

	return &info, nil
}

func (l *StoreLock) writeHolder(info *HolderInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.lockPath, data, 0644)
}

// isStale treats a same-host lock as stale only when its process is dead.
// For a foreign host the process cannot be checked, so the timeout decides.
func (l *StoreLock) isStale(info *HolderInfo) bool {
	hostname, _ := os.Hostname()

	if info.Hostname == hostname {
		return !processExists(info.PID)
	}

	return time.Since(info.StartTime) > l.staleTimeout
}

func (l *StoreLock) isHeldByCurrentProcess(info *HolderInfo) bool {
	hostname, _ := os.Hostname()
	return info.PID == os.Getpid() && info.Hostname == hostname
}

func (l *StoreLock) isHeldByThisInstance(info *HolderInfo) bool {
	if l.info == nil {
		return false
	}
	return l.isHeldByCurrentProcess(info) &&
		l.info.StartTime.Equal(info.StartTime) &&
		l.info.Operation == info.Operation
}

// HeldError reports a lock held elsewhere
type HeldError struct {
	Holder *HolderInfo
	Reason string
}

func (e *HeldError) Error() string {
	if e.Holder != nil {
		return fmt.Sprintf("cannot lock store: %s (held by PID %d on %s since %s, operation: %s)",
			e.Reason,
			e.Holder.PID,
			e.Holder.Hostname,
			e.Holder.StartTime.Format(time.RFC3339),
			e.Holder.Operation,
		)
	}
	return fmt.Sprintf("cannot lock store: %s", e.Reason)
}

// IsHeldError checks whether err is a HeldError
func IsHeldError(err error) bool {
	_, ok := err.(*HeldError)
	return ok
}
