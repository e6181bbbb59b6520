// Package store implements directory scanning, the navigation cursor, and
// the rename/move/delete mutation operations over the content root.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/emirkaya/vaultpad/internal/domain"
	"github.com/emirkaya/vaultpad/internal/namecodec"
	"github.com/emirkaya/vaultpad/internal/vault"
)

const (
	dirPermissions     = 0755
	payloadPermissions = 0644
)

// Store manages items under a single content root.
//
// It keeps a navigation cursor and an ephemeral display-name map rebuilt by
// the last Scan. One logical caller per Store instance; no internal locking.
type Store struct {
	root        string
	currentPath string
	payloadExt  string
	items       map[string]domain.Item
}

// New creates a store rooted at root, creating the directory if needed.
// payloadExt is the document payload extension without the leading dot.
func New(root, payloadExt string) (*Store, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(absRoot, dirPermissions); err != nil {
		return nil, mapError(err)
	}

	if payloadExt == "" {
		payloadExt = "html"
	}

	return &Store{
		root:        absRoot,
		currentPath: absRoot,
		payloadExt:  payloadExt,
		items:       make(map[string]domain.Item),
	}, nil
}

// Root returns the content root
func (s *Store) Root() string {
	return s.root
}

// CurrentPath returns the navigation cursor
func (s *Store) CurrentPath() string {
	return s.currentPath
}

// PayloadExt returns the configured payload extension
func (s *Store) PayloadExt() string {
	return s.payloadExt
}

// Scan lists dir, classifies each entry through the name codec, rebuilds
// the display-name map, and returns items sorted folders-before-files and
// case-insensitively by display name. A missing dir yields an empty list.
func (s *Store) Scan(dir string) ([]domain.Item, error) {
	s.items = make(map[string]domain.Item)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Item{}, nil
		}
		return nil, mapError(err)
	}

	items := make([]domain.Item, 0, len(entries))
	for _, entry := range entries {
		kind, display := namecodec.Decode(entry.Name())
		item := domain.Item{
			Name:        entry.Name(),
			FullPath:    filepath.Join(dir, entry.Name()),
			Kind:        kind,
			DisplayName: display,
		}
		items = append(items, item)
		s.items[item.DisplayName] = item
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Kind != items[j].Kind {
			return items[i].IsFolder()
		}
		return strings.ToLower(items[i].DisplayName) < strings.ToLower(items[j].DisplayName)
	})

	return items, nil
}

// ScanCurrent scans the directory the navigation cursor points at
func (s *Store) ScanCurrent() ([]domain.Item, error) {
	return s.Scan(s.currentPath)
}

// Item looks up an item from the last scan by display name
func (s *Store) Item(displayName string) (domain.Item, bool) {
	item, ok := s.items[displayName]
	return item, ok
}

// Navigate moves the cursor into a folder from the last scan.
// Returns false without side effects if the name does not resolve to a
// folder; it does not re-scan.
func (s *Store) Navigate(displayName string) bool {
	item, ok := s.items[displayName]
	if !ok || !item.IsFolder() {
		return false
	}
	s.currentPath = item.FullPath
	return true
}

// Back moves the cursor to its parent. No-op at the content root.
func (s *Store) Back() bool {
	if s.currentPath == s.root {
		return false
	}
	parent := filepath.Dir(s.currentPath)
	if rel, err := filepath.Rel(s.root, parent); err != nil || strings.HasPrefix(rel, "..") {
		parent = s.root
	}
	s.currentPath = parent
	return true
}

// CanGoBack reports whether the cursor is below the content root
func (s *Store) CanGoBack() bool {
	return s.currentPath != s.root
}

// CreateFolder creates a folder item under the cursor directory
func (s *Store) CreateFolder(displayName string) (domain.Item, error) {
	if err := namecodec.Validate(displayName); err != nil {
		return domain.Item{}, err
	}

	raw := namecodec.EncodeFolder(displayName)
	path := filepath.Join(s.currentPath, raw)

	if pathExists(path) {
		return domain.Item{}, fmt.Errorf("%w: folder %q", domain.ErrCollision, displayName)
	}

	if err := os.MkdirAll(path, dirPermissions); err != nil {
		return domain.Item{}, mapError(err)
	}

	return domain.Item{
		Name:        raw,
		FullPath:    path,
		Kind:        domain.KindFolder,
		DisplayName: displayName,
	}, nil
}

// CreateFile creates a file item under the cursor directory: a directory
// holding an empty payload and, when password is non-empty, a credential
// record. The payload exists before the item is handed to any caller.
func (s *Store) CreateFile(displayName, password string) (domain.Item, error) {
	if err := validateFileName(displayName); err != nil {
		return domain.Item{}, err
	}

	path := filepath.Join(s.currentPath, displayName)
	if pathExists(path) {
		return domain.Item{}, fmt.Errorf("%w: file %q", domain.ErrCollision, displayName)
	}

	if err := os.MkdirAll(path, dirPermissions); err != nil {
		return domain.Item{}, mapError(err)
	}

	item := domain.Item{
		Name:        displayName,
		FullPath:    path,
		Kind:        domain.KindFile,
		DisplayName: displayName,
	}

	if err := os.WriteFile(item.PayloadPath(s.payloadExt), nil, payloadPermissions); err != nil {
		os.RemoveAll(path)
		return domain.Item{}, mapError(err)
	}

	if password != "" {
		rec, err := vault.Derive(password)
		if err != nil {
			os.RemoveAll(path)
			return domain.Item{}, err
		}
		if err := vault.Persist(item.CredentialPath(), rec); err != nil {
			os.RemoveAll(path)
			return domain.Item{}, mapError(err)
		}
	}

	return item, nil
}

// Rename gives an item a new display name in place. An unchanged name is a
// no-op returning the current path. Folder names are re-encoded with the
// marker before the filesystem rename.
func (s *Store) Rename(item domain.Item, newDisplayName string) (string, error) {
	if err := namecodec.Validate(newDisplayName); err != nil {
		return "", err
	}

	if newDisplayName == item.DisplayName {
		return item.FullPath, nil
	}

	var newRaw string
	switch item.Kind {
	case domain.KindFolder:
		newRaw = namecodec.EncodeFolder(newDisplayName)
	case domain.KindFile:
		if err := validateFileName(newDisplayName); err != nil {
			return "", err
		}
		newRaw = newDisplayName
	default:
		return "", fmt.Errorf("%w: unknown item kind %v", domain.ErrValidation, item.Kind)
	}

	newPath := filepath.Join(item.Dir(), newRaw)
	if pathExists(newPath) {
		return "", fmt.Errorf("%w: an item named %q already exists", domain.ErrCollision, newDisplayName)
	}

	if err := os.Rename(item.FullPath, newPath); err != nil {
		return "", mapError(err)
	}

	return newPath, nil
}

// Move relocates an item into targetDir, keeping its raw name. Moving a
// folder into itself or a descendant is rejected. Cross-device moves fall
// back to copy-then-delete and are not atomic.
func (s *Store) Move(item domain.Item, targetDir string) (string, error) {
	targetDir = filepath.Clean(targetDir)

	if item.IsFolder() && withinSubtree(targetDir, item.FullPath) {
		return "", fmt.Errorf("%w: cannot move a folder into itself or its own subtree", domain.ErrValidation)
	}

	newPath := filepath.Join(targetDir, filepath.Base(item.FullPath))
	if pathExists(newPath) {
		return "", fmt.Errorf("%w: an item with the same name exists at destination", domain.ErrCollision)
	}

	if err := os.Rename(item.FullPath, newPath); err != nil {
		if !isCrossDevice(err) {
			return "", mapError(err)
		}
		if err := copyTree(item.FullPath, newPath); err != nil {
			return "", mapError(err)
		}
		if err := os.RemoveAll(item.FullPath); err != nil {
			return "", mapError(err)
		}
	}

	return newPath, nil
}

// Delete recursively removes an item's backing directory tree. Irreversible.
func (s *Store) Delete(item domain.Item) error {
	if err := os.RemoveAll(item.FullPath); err != nil {
		return mapError(err)
	}
	return nil
}

// validateFileName applies the codec rules plus the file-specific rule that
// a file display name must not begin with the folder marker, which would
// make the on-disk name decode as a folder.
func validateFileName(displayName string) error {
	if err := namecodec.Validate(displayName); err != nil {
		return err
	}
	if strings.HasPrefix(displayName, namecodec.FolderMarker) {
		return fmt.Errorf("%w: file name cannot begin with %q", domain.ErrValidation, namecodec.FolderMarker)
	}
	return nil
}

// withinSubtree reports whether target equals base or lies underneath it
func withinSubtree(target, base string) bool {
	if target == base {
		return true
	}
	return strings.HasPrefix(target, base+string(filepath.Separator))
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// isCrossDevice reports whether a rename failed because source and
// destination are on different volumes
func isCrossDevice(err error) bool {
	le, ok := err.(*os.LinkError)
	return ok && le.Err == syscall.EXDEV
}

// copyTree recursively copies src to dst, preserving the directory shape
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if err := copyTree(srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}

	return out.Close()
}

// mapError converts OS errors to domain errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	if os.IsExist(err) {
		return fmt.Errorf("%w: %v", domain.ErrCollision, err)
	}
	if os.IsPermission(err) {
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrIO, err)
}
