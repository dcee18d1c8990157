package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/inkwell/internal/domain"
	"github.com/msomdec/inkwell/internal/service"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := service.NewBcryptHasher(4)

	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "pw1" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !h.Verify("pw1", hash) {
		t.Fatal("expected correct password to verify")
	}
	if h.Verify("pw2", hash) {
		t.Fatal("expected wrong password to fail")
	}
	if h.Verify("pw1", "not-a-bcrypt-hash") {
		t.Fatal("expected malformed hash to fail")
	}
}

func TestBcryptHasher_FreshSaltPerCall(t *testing.T) {
	h := service.NewBcryptHasher(4)

	a, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if a == b {
		t.Fatal("expected different hashes for the same password")
	}
	if !h.Verify("same", a) || !h.Verify("same", b) {
		t.Fatal("both hashes should verify")
	}
}

func TestBcryptHasher_InvalidCost(t *testing.T) {
	if _, err := service.NewBcryptHasher(99).Hash("pw"); err == nil {
		t.Fatal("expected error for out-of-range cost")
	}
}

func TestBcryptHasher_PasswordLength(t *testing.T) {
	h := service.NewBcryptHasher(4)

	if _, err := h.Hash(strings.Repeat("x", service.MaxPasswordLength)); err != nil {
		t.Fatalf("Hash at the limit: %v", err)
	}

	_, err := h.Hash(strings.Repeat("x", service.MaxPasswordLength+1))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
