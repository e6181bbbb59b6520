// Package vault derives, persists, loads, and verifies the password
// credentials that gate access to individual file items.
package vault

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/scrypt"

	"github.com/emirkaya/vaultpad/internal/domain"
)

// Fixed scrypt parameters. Existing credential records carry no cost
// parameters, so these constants must not change for a deployed store.
const (
	SaltSize = 16
	KeySize  = 32

	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1

	credentialPermissions = 0600
)

// Record is a salt plus the key derived from a password with that salt
type Record struct {
	Salt []byte
	Key  []byte
}

// Derive creates a credential record for a password with a fresh random salt
func Derive(password string) (Record, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return Record{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return Record{}, fmt.Errorf("key derivation failed: %w", err)
	}

	return Record{Salt: salt, Key: key}, nil
}

// Verify re-derives a key from the candidate password using the record's
// salt and compares it to the stored key in constant time.
func Verify(rec Record, candidate string) bool {
	derived, err := scrypt.Key([]byte(candidate), rec.Salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, rec.Key) == 1
}

// Encode serializes a record as base64url(salt || key)
func Encode(rec Record) []byte {
	blob := make([]byte, 0, SaltSize+KeySize)
	blob = append(blob, rec.Salt...)
	blob = append(blob, rec.Key...)

	encoded := make([]byte, base64.URLEncoding.EncodedLen(len(blob)))
	base64.URLEncoding.Encode(encoded, blob)
	return encoded
}

// DecodeBlob parses a serialized credential blob back into a record
func DecodeBlob(blob []byte) (Record, error) {
	decoded := make([]byte, base64.URLEncoding.DecodedLen(len(blob)))
	n, err := base64.URLEncoding.Decode(decoded, blob)
	if err != nil {
		return Record{}, fmt.Errorf("%w: credential blob is not valid base64url", domain.ErrCorruptData)
	}
	decoded = decoded[:n]

	if len(decoded) < SaltSize+KeySize {
		return Record{}, fmt.Errorf("%w: credential blob is %d bytes, expected at least %d",
			domain.ErrCorruptData, len(decoded), SaltSize+KeySize)
	}

	return Record{
		Salt: decoded[:SaltSize],
		Key:  decoded[SaltSize : SaltSize+KeySize],
	}, nil
}

// Persist writes a credential record to path
func Persist(path string, rec Record) error {
	if err := os.WriteFile(path, Encode(rec), credentialPermissions); err != nil {
		return fmt.Errorf("failed to write credential record: %w", err)
	}
	return nil
}

// Load reads a credential record from path. A missing file maps to
// domain.ErrNotFound, which the policy layer treats as "no password set".
func Load(path string) (Record, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, domain.ErrNotFound
		}
		return Record{}, fmt.Errorf("%w: failed to read credential record: %v", domain.ErrIO, err)
	}

	return DecodeBlob(blob)
}

// ClearBytes zeroes a byte slice holding sensitive material
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
