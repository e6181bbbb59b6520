// Package keyring remembers item passwords in the OS credential store,
// keyed by the item's full path.
package keyring

import (
	"errors"
	"fmt"

	zkeyring "github.com/zalando/go-keyring"

	"github.com/emirkaya/vaultpad/internal/domain"
)

const serviceName = "vaultpad"

// Remember stores the password for an item path
func Remember(itemPath, password string) error {
	if err := zkeyring.Set(serviceName, itemPath, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	return nil
}

// Recall fetches a remembered password for an item path
func Recall(itemPath string) (string, error) {
	password, err := zkeyring.Get(serviceName, itemPath)
	if err != nil {
		if errors.Is(err, zkeyring.ErrNotFound) {
			return "", fmt.Errorf("%w: no remembered password for %s", domain.ErrNotFound, itemPath)
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return password, nil
}

// Forget drops a remembered password. Forgetting an unknown path is a no-op.
func Forget(itemPath string) error {
	err := zkeyring.Delete(serviceName, itemPath)
	if err != nil && !errors.Is(err, zkeyring.ErrNotFound) {
		return fmt.Errorf("failed to remove password from keyring: %w", err)
	}
	return nil
}
