package keyring

import (
	"errors"
	"testing"

	zkeyring "github.com/zalando/go-keyring"

	"github.com/emirkaya/vaultpad/internal/domain"
)

func TestRememberRecallForget(t *testing.T) {
	zkeyring.MockInit()

	const path = "/store/Diary"

	if err := Remember(path, "hunter2"); err != nil {
		t.Fatalf("Remember() error = %v", err)
	}

	got, err := Recall(path)
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if got != "hunter2" {
		t.Errorf("Recall() = %q", got)
	}

	if err := Forget(path); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if _, err := Recall(path); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Recall() after Forget error = %v, want ErrNotFound", err)
	}
}

func TestRecallUnknownPath(t *testing.T) {
	zkeyring.MockInit()

	if _, err := Recall("/store/never-saved"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Recall() error = %v, want ErrNotFound", err)
	}
}

func TestForgetUnknownPathIsNoOp(t *testing.T) {
	zkeyring.MockInit()

	if err := Forget("/store/never-saved"); err != nil {
		t.Errorf("Forget() error = %v", err)
	}
}
