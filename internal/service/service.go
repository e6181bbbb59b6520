// Package service coordinates store mutations with the secondary indexes
// and the mutation journal, so the indexes always reflect what actually
// happened on disk.
package service

import (
	"errors"
	"fmt"

	"github.com/emirkaya/vaultpad/internal/domain"
	"github.com/emirkaya/vaultpad/internal/index"
	"github.com/emirkaya/vaultpad/internal/logger"
	"github.com/emirkaya/vaultpad/internal/state"
	"github.com/emirkaya/vaultpad/internal/store"
	"github.com/emirkaya/vaultpad/internal/vault"
)

// DefaultMinPasswordLength is the policy floor for item passwords
const DefaultMinPasswordLength = 3

// Service executes item operations. Filesystem changes come first; index
// updates follow only after the filesystem change succeeded. An index
// write failure never rolls back the filesystem, it is logged and
// journaled instead.
type Service struct {
	store   *store.Store
	recency *index.RecencyIndex
	pins    *index.PinIndex
	journal *state.Journal
	log     logger.Logger

	minPasswordLen int
}

// Options tunes service construction
type Options struct {
	// MinPasswordLength overrides DefaultMinPasswordLength when positive
	MinPasswordLength int
}

// New wires a service over its collaborators. journal may be nil, in
// which case mutations are not journaled.
func New(st *store.Store, recency *index.RecencyIndex, pins *index.PinIndex, journal *state.Journal, log logger.Logger, opts Options) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if recency == nil || pins == nil {
		return nil, fmt.Errorf("indexes cannot be nil")
	}
	if log == nil {
		log = logger.Get()
	}

	minLen := opts.MinPasswordLength
	if minLen <= 0 {
		minLen = DefaultMinPasswordLength
	}

	return &Service{
		store:          st,
		recency:        recency,
		pins:           pins,
		journal:        journal,
		log:            log,
		minPasswordLen: minLen,
	}, nil
}

// Store exposes the underlying store for listing and navigation
func (s *Service) Store() *store.Store {
	return s.store
}

// record journals one mutation; journal failures are logged, never fatal
func (s *Service) record(op, itemPath, newPath, status, errText string) {
	if s.journal == nil {
		return
	}
	err := s.journal.Record(state.MutationRecord{
		Operation: op,
		ItemPath:  itemPath,
		NewPath:   newPath,
		Status:    status,
		Error:     errText,
	})
	if err != nil {
		s.log.Warn("failed to journal mutation", "operation", op, "error", err)
	}
}

// failureStatus classifies an operation error for the journal
func failureStatus(err error) string {
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrCollision) {
		return state.StatusRejected
	}
	return state.StatusFSFailed
}

// CreateFolder creates a folder under the navigation cursor
func (s *Service) CreateFolder(displayName string) (domain.Item, error) {
	item, err := s.store.CreateFolder(displayName)
	if err != nil {
		s.record("create", displayName, "", failureStatus(err), err.Error())
		return domain.Item{}, err
	}

	s.record("create", item.FullPath, "", state.StatusDone, "")
	s.log.Info("folder created", "path", item.FullPath)
	return item, nil
}

// CreateFile creates a file item under the navigation cursor. A non-empty
// password must meet the length policy and becomes the item's credential.
func (s *Service) CreateFile(displayName, password string) (domain.Item, error) {
	if password != "" && len(password) < s.minPasswordLen {
		err := fmt.Errorf("%w: minimum length is %d", domain.ErrPasswordTooShort, s.minPasswordLen)
		s.record("create", displayName, "", state.StatusRejected, err.Error())
		return domain.Item{}, err
	}

	item, err := s.store.CreateFile(displayName, password)
	if err != nil {
		s.record("create", displayName, "", failureStatus(err), err.Error())
		return domain.Item{}, err
	}

	s.record("create", item.FullPath, "", state.StatusDone, "")
	s.log.Info("file created", "path", item.FullPath, "protected", password != "")
	return item, nil
}

// Rename renames an item and propagates the new path into both indexes.
// For folders, records under the old path are rebased onto the new one.
func (s *Service) Rename(item domain.Item, newDisplayName string) (string, error) {
	oldPath := item.FullPath

	newPath, err := s.store.Rename(item, newDisplayName)
	if err != nil {
		s.record("rename", oldPath, "", failureStatus(err), err.Error())
		return "", err
	}
	if newPath == oldPath {
		return newPath, nil
	}

	s.propagatePathChange("rename", item, oldPath, newPath)
	return newPath, nil
}

// Move relocates an item into targetDir and propagates the change
func (s *Service) Move(item domain.Item, targetDir string) (string, error) {
	oldPath := item.FullPath

	newPath, err := s.store.Move(item, targetDir)
	if err != nil {
		s.record("move", oldPath, targetDir, failureStatus(err), err.Error())
		return "", err
	}

	s.propagatePathChange("move", item, oldPath, newPath)
	return newPath, nil
}

// propagatePathChange updates both indexes after a successful filesystem
// rename or move. Failures leave the filesystem as-is and are journaled
// as partial.
func (s *Service) propagatePathChange(op string, item domain.Item, oldPath, newPath string) {
	var indexErr error

	if _, err := s.recency.UpdatePath(oldPath, newPath); err != nil {
		indexErr = err
	}
	if _, err := s.pins.UpdatePath(oldPath, newPath); err != nil && indexErr == nil {
		indexErr = err
	}

	if item.IsFolder() {
		if _, err := s.recency.RewritePrefix(oldPath, newPath); err != nil && indexErr == nil {
			indexErr = err
		}
		if _, err := s.pins.RewritePrefix(oldPath, newPath); err != nil && indexErr == nil {
			indexErr = err
		}
	}

	if indexErr != nil {
		s.log.Warn("index update failed after filesystem change",
			"operation", op, "old", oldPath, "new", newPath, "error", indexErr)
		s.record(op, oldPath, newPath, state.StatusIndexPartial, indexErr.Error())
		return
	}

	s.record(op, oldPath, newPath, state.StatusDone, "")
	s.log.Info("item "+op+"d", "old", oldPath, "new", newPath)
}

// Delete removes an item and evicts it, and for folders everything under
// it, from both indexes
func (s *Service) Delete(item domain.Item) error {
	if err := s.store.Delete(item); err != nil {
		s.record("delete", item.FullPath, "", failureStatus(err), err.Error())
		return err
	}

	var indexErr error
	if _, err := s.recency.Remove(item.FullPath); err != nil {
		indexErr = err
	}
	if _, err := s.pins.Remove(item.FullPath); err != nil && indexErr == nil {
		indexErr = err
	}
	if item.IsFolder() {
		if _, err := s.recency.RemovePrefix(item.FullPath); err != nil && indexErr == nil {
			indexErr = err
		}
		if _, err := s.pins.RemovePrefix(item.FullPath); err != nil && indexErr == nil {
			indexErr = err
		}
	}

	if indexErr != nil {
		s.log.Warn("index eviction failed after delete",
			"path", item.FullPath, "error", indexErr)
		s.record("delete", item.FullPath, "", state.StatusIndexPartial, indexErr.Error())
		return nil
	}

	s.record("delete", item.FullPath, "", state.StatusDone, "")
	s.log.Info("item deleted", "path", item.FullPath)
	return nil
}

// Open checks the item's credential and, on success, records the access.
// Items without a credential open with any password, including none.
// Returns the payload path to read.
func (s *Service) Open(item domain.Item, password string) (string, error) {
	if !item.IsFile() {
		return "", fmt.Errorf("%w: only file items can be opened", domain.ErrValidation)
	}

	rec, err := vault.Load(item.CredentialPath())
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// unprotected item
	case err != nil:
		return "", err
	default:
		if !vault.Verify(rec, password) {
			s.log.Warn("password rejected", "path", item.FullPath)
			return "", domain.ErrWrongPassword
		}
	}

	if err := s.recency.Touch(item); err != nil {
		s.log.Warn("failed to record access", "path", item.FullPath, "error", err)
	}

	return item.PayloadPath(s.store.PayloadExt()), nil
}

// SetPassword puts a fresh credential on an item, replacing any existing
// one without checking it. Use ChangePassword when the old password must
// be proven.
func (s *Service) SetPassword(item domain.Item, password string) error {
	if !item.IsFile() {
		return fmt.Errorf("%w: only file items carry credentials", domain.ErrValidation)
	}
	if len(password) < s.minPasswordLen {
		err := fmt.Errorf("%w: minimum length is %d", domain.ErrPasswordTooShort, s.minPasswordLen)
		s.record("passwd", item.FullPath, "", state.StatusRejected, err.Error())
		return err
	}

	rec, err := vault.Derive(password)
	if err != nil {
		return err
	}
	if err := vault.Persist(item.CredentialPath(), rec); err != nil {
		s.record("passwd", item.FullPath, "", state.StatusFSFailed, err.Error())
		return err
	}

	s.record("passwd", item.FullPath, "", state.StatusDone, "")
	s.log.Info("credential updated", "path", item.FullPath)
	return nil
}

// ChangePassword verifies the current password before installing a new one
func (s *Service) ChangePassword(item domain.Item, oldPassword, newPassword string) error {
	if !item.IsFile() {
		return fmt.Errorf("%w: only file items carry credentials", domain.ErrValidation)
	}

	rec, err := vault.Load(item.CredentialPath())
	if err != nil {
		return err
	}
	if !vault.Verify(rec, oldPassword) {
		s.record("passwd", item.FullPath, "", state.StatusRejected, "wrong password")
		return domain.ErrWrongPassword
	}

	return s.SetPassword(item, newPassword)
}

// Pin pins an item. Re-pinning is a no-op reporting false.
func (s *Service) Pin(item domain.Item) (bool, error) {
	added, err := s.pins.Pin(item)
	if err != nil {
		s.record("pin", item.FullPath, "", state.StatusIndexPartial, err.Error())
		return false, err
	}
	if added {
		s.record("pin", item.FullPath, "", state.StatusDone, "")
	}
	return added, nil
}

// Unpin removes an item's pin, reporting whether one existed
func (s *Service) Unpin(item domain.Item) (bool, error) {
	removed, err := s.pins.Remove(item.FullPath)
	if err != nil {
		s.record("unpin", item.FullPath, "", state.StatusIndexPartial, err.Error())
		return false, err
	}
	if removed {
		s.record("unpin", item.FullPath, "", state.StatusDone, "")
	}
	return removed, nil
}

// Recent returns the recently opened records, newest first
func (s *Service) Recent() []domain.HistoryRecord {
	return s.recency.Records()
}

// Pinned returns the pinned records, newest pin first
func (s *Service) Pinned() []domain.PinnedRecord {
	return s.pins.Records()
}
