package domain

import "path/filepath"

// ItemKind distinguishes the two kinds of store entries
type ItemKind int

const (
	KindFile ItemKind = iota
	KindFolder
)

// String returns the string representation of the kind
func (k ItemKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// Item represents a single addressable entry in the store.
//
// A file item is backed by a directory that holds the document payload and
// an optional credential record. A folder item is a plain directory whose
// raw name carries the folder marker prefix.
type Item struct {
	// Name is the raw on-disk name, marker prefix included for folders
	Name string

	// FullPath is the absolute path of the backing directory
	FullPath string

	// Kind indicates whether this is a file or a folder
	Kind ItemKind

	// DisplayName is the user-facing name with the marker stripped
	DisplayName string
}

// IsFolder returns true if this item is a folder
func (i Item) IsFolder() bool {
	return i.Kind == KindFolder
}

// IsFile returns true if this item is a leaf document
func (i Item) IsFile() bool {
	return i.Kind == KindFile
}

// Dir returns the directory containing this item
func (i Item) Dir() string {
	return filepath.Dir(i.FullPath)
}

// PayloadPath returns the path of the document payload inside a file item.
// ext is the payload extension without the leading dot.
func (i Item) PayloadPath(ext string) string {
	return filepath.Join(i.FullPath, "content."+ext)
}

// CredentialPath returns the path of the credential record inside a file item
func (i Item) CredentialPath() string {
	return filepath.Join(i.FullPath, "content.bin")
}
