package logging

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestWithOperation(t *testing.T) {
	logger := slog.Default()
	result := WithOperation(logger, "inbox.poll")
	if result == nil {
		t.Error("WithOperation returned nil")
	}
}

func TestWithService(t *testing.T) {
	logger := slog.Default()
	result := WithService(logger, "gmail")
	if result == nil {
		t.Error("WithService returned nil")
	}
}

func TestWithUser(t *testing.T) {
	logger := slog.Default()
	result := WithUser(logger, "work")
	if result == nil {
		t.Error("WithUser returned nil")
	}
}

func TestOperationAttr(t *testing.T) {
	attr := Operation("schedule")
	if attr.Key != KeyOperation {
		t.Errorf("Operation key = %q, want %q", attr.Key, KeyOperation)
	}
	if attr.Value.String() != "schedule" {
		t.Errorf("Operation value = %q, want %q", attr.Value.String(), "schedule")
	}
}

func TestStatusAttr(t *testing.T) {
	attr := Status(StatusSuccess)
	if attr.Key != KeyStatus {
		t.Errorf("Status key = %q, want %q", attr.Key, KeyStatus)
	}
	if attr.Value.String() != StatusSuccess {
		t.Errorf("Status value = %q, want %q", attr.Value.String(), StatusSuccess)
	}
}

func TestMessageIDAttr(t *testing.T) {
	attr := MessageID("msg-42")
	if attr.Key != KeyMessageID {
		t.Errorf("MessageID key = %q, want %q", attr.Key, KeyMessageID)
	}
	if attr.Value.String() != "msg-42" {
		t.Errorf("MessageID value = %q, want %q", attr.Value.String(), "msg-42")
	}
}

func TestErr(t *testing.T) {
	// Test with error
	err := errors.New("test error")
	attr := Err(err)
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "test error" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "test error")
	}

	// Test with nil error - should return empty group that slog omits
	attr = Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty", attr.Key)
	}
}

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"normal address", "alice@example.com"},
		{"empty address", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)
			if tt.email == "" {
				if got != "" {
					t.Errorf("AnonymizeEmail(%q) = %q, want empty", tt.email, got)
				}
				return
			}
			if !strings.HasPrefix(got, "user:") {
				t.Errorf("AnonymizeEmail(%q) = %q, want user: prefix", tt.email, got)
			}
			if strings.Contains(got, tt.email) {
				t.Errorf("AnonymizeEmail(%q) leaked the address", tt.email)
			}
		})
	}
}

func TestAnonymizeEmailIsStable(t *testing.T) {
	a := AnonymizeEmail("bob@example.com")
	b := AnonymizeEmail("bob@example.com")
	if a != b {
		t.Errorf("AnonymizeEmail is not stable: %q != %q", a, b)
	}
	c := AnonymizeEmail("carol@example.com")
	if a == c {
		t.Error("AnonymizeEmail collided for distinct addresses")
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"normal address", "alice@example.com", "example.com"},
		{"empty address", "", ""},
		{"no at sign", "notanemail", ""},
		{"multiple at signs", "a@b@c", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDomain(tt.email); got != tt.want {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestSenderHash(t *testing.T) {
	attr := SenderHash("alice@example.com")
	if attr.Key != KeySenderHash {
		t.Errorf("SenderHash key = %q, want %q", attr.Key, KeySenderHash)
	}
	if strings.Contains(attr.Value.String(), "alice") {
		t.Error("SenderHash leaked the address")
	}
}
