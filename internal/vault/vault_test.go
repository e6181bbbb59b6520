package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/emirkaya/vaultpad/internal/domain"
)

func TestDeriveVerifyRoundTrip(t *testing.T) {
	passwords := []string{"abc", "longer password with spaces", "şifre123", "p"}

	for _, p := range passwords {
		rec, err := Derive(p)
		if err != nil {
			t.Fatalf("Derive(%q) failed: %v", p, err)
		}

		if len(rec.Salt) != SaltSize {
			t.Errorf("Expected %d-byte salt, got %d", SaltSize, len(rec.Salt))
		}
		if len(rec.Key) != KeySize {
			t.Errorf("Expected %d-byte key, got %d", KeySize, len(rec.Key))
		}

		if !Verify(rec, p) {
			t.Errorf("Verify failed for correct password %q", p)
		}
		if Verify(rec, p+"x") {
			t.Errorf("Verify accepted wrong password for %q", p)
		}
	}
}

func TestDeriveFreshSalt(t *testing.T) {
	a, err := Derive("same password")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	b, err := Derive("same password")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	if string(a.Salt) == string(b.Salt) {
		t.Error("Two derivations produced the same salt")
	}
	if string(a.Key) == string(b.Key) {
		t.Error("Two derivations with distinct salts produced the same key")
	}
}

func TestEncodeDecodeBlob(t *testing.T) {
	rec, err := Derive("abc")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	decoded, err := DecodeBlob(Encode(rec))
	if err != nil {
		t.Fatalf("DecodeBlob failed: %v", err)
	}

	if string(decoded.Salt) != string(rec.Salt) {
		t.Error("Salt changed across encode/decode")
	}
	if string(decoded.Key) != string(rec.Key) {
		t.Error("Key changed across encode/decode")
	}

	if !Verify(decoded, "abc") {
		t.Error("Verify failed after encode/decode")
	}
	if Verify(decoded, "abd") {
		t.Error("Verify accepted wrong password after encode/decode")
	}
}

func TestPersistLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.bin")

	rec, err := Derive("secret")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	if err := Persist(path, rec); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !Verify(loaded, "secret") {
		t.Error("Loaded record does not verify the original password")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such-file"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing credential, got %v", err)
	}
}

// A read failure that is not file-not-found surfaces as ErrIO, keeping the
// error taxonomy uniform with the store layer.
func TestLoadReadFailure(t *testing.T) {
	// a directory cannot be read as a credential file
	_, err := Load(t.TempDir())
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatal("read failure misreported as a missing credential")
	}
	if !errors.Is(err, domain.ErrIO) {
		t.Errorf("Expected ErrIO for unreadable credential, got %v", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"truncated", []byte("c2hvcnQ=")},
		{"not base64url", []byte("!!! not base64 !!!")},
		{"empty", []byte("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "content.bin")
			if err := os.WriteFile(path, tt.blob, 0600); err != nil {
				t.Fatalf("failed to write blob: %v", err)
			}

			_, err := Load(path)
			if !errors.Is(err, domain.ErrCorruptData) {
				t.Errorf("Expected ErrCorruptData, got %v", err)
			}
		})
	}
}
