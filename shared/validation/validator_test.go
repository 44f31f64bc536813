package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStructValid(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := v.Struct(sampleRequest{Email: "ana@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}
}

func TestMessageIsReadable(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	err = v.Struct(sampleRequest{Email: "not-an-email", Password: "secret1"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := v.Message(err)
	if !strings.Contains(msg, "Email") {
		t.Fatalf("expected message to mention the failing field, got %q", msg)
	}
	if strings.Contains(msg, "validator.ValidationErrors") {
		t.Fatalf("expected translated message, got raw error %q", msg)
	}
}
