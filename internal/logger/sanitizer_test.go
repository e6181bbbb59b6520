package logger

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"password pair", "login failed password=hunter2", "login failed password=***"},
		{"home dir", "store at /home/emir/VaultPad", "store at /home/***/VaultPad"},
		{"mac home dir", "store at /Users/emir/VaultPad", "store at /Users/***/VaultPad"},
		{"clean message", "item renamed", "item renamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeArgs(t *testing.T) {
	s := NewSanitizer()

	args := s.SanitizeArgs([]any{"password", "hunter2", "item", "Diary"})

	if v, _ := args[1].(string); strings.Contains(v, "hunter2") {
		t.Errorf("password value not masked: %v", args[1])
	}
	if args[3] != "Diary" {
		t.Errorf("non-sensitive value changed: %v", args[3])
	}
}

func TestMaskValue(t *testing.T) {
	s := NewSanitizer()

	if got := s.maskValue("ab"); got != "***" {
		t.Errorf("short value should be fully masked, got %q", got)
	}
	if got := s.maskValue("abcdef"); got != "a***" {
		t.Errorf("medium value mask = %q", got)
	}
	if got := s.maskValue("a-long-password"); got != "a***d" {
		t.Errorf("long value mask = %q", got)
	}
}
