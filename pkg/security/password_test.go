package security

import (
	"strings"
	"testing"

	"github.com/orderplus/orderplus-backend/pkg/config"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	encoded, err := HashPassword("s3cret-pass", cfg)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	ok, err := VerifyPassword("s3cret-pass", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}

	ok, err = VerifyPassword("wrong-pass", encoded)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("whatever", "not-an-argon-hash"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

func TestRandomTokenLengthAndCharset(t *testing.T) {
	token, err := RandomToken(10)
	if err != nil {
		t.Fatalf("random token: %v", err)
	}
	if len(token) != 10 {
		t.Fatalf("expected 10 characters, got %d", len(token))
	}
	for _, r := range token {
		valid := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !valid {
			t.Fatalf("unexpected character %q in token", r)
		}
	}

	other, err := RandomToken(10)
	if err != nil {
		t.Fatalf("random token: %v", err)
	}
	if token == other {
		t.Fatalf("two tokens should not collide")
	}
}
