// Package namecodec encodes the folder-vs-file distinction into raw
// on-disk names and validates user-supplied display names.
package namecodec

import (
	"fmt"
	"strings"

	"github.com/emirkaya/vaultpad/internal/domain"
)

// FolderMarker is the reserved prefix that marks a directory entry as a
// folder item. It never appears in a display name the codec produces.
const FolderMarker = "-__"

// invalidChars are rejected anywhere in a candidate name
const invalidChars = `/\:*?"<>|`

// EncodeFolder converts a folder display name to its raw on-disk name
func EncodeFolder(displayName string) string {
	return FolderMarker + displayName
}

// Decode classifies a raw on-disk name and strips the folder marker.
// Names without the marker decode as file items, unchanged.
func Decode(rawName string) (domain.ItemKind, string) {
	if strings.HasPrefix(rawName, FolderMarker) {
		return domain.KindFolder, rawName[len(FolderMarker):]
	}
	return domain.KindFile, rawName
}

// Validate rejects empty names and names containing filesystem-reserved
// characters. Every name it accepts round-trips through EncodeFolder/Decode.
func Validate(candidate string) error {
	if candidate == "" {
		return fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}
	if i := strings.IndexAny(candidate, invalidChars); i >= 0 {
		return fmt.Errorf("%w: name contains invalid character %q", domain.ErrValidation, candidate[i])
	}
	return nil
}
