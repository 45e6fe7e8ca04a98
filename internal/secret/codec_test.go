package secret

import (
	"regexp"
	"testing"
)

// --- Password Hashing Tests ---

func TestHashAndVerifyPassword(t *testing.T) {
	password := "my-secret-password-123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}

	// Correct password should verify.
	if !VerifyPassword(hash, password) {
		t.Error("expected correct password to verify")
	}

	// Wrong password should not verify.
	if VerifyPassword(hash, "wrong-password") {
		t.Error("expected wrong password to fail verification")
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty string", ""},
		{"random text", "not-a-hash"},
		{"too few parts", "$argon2id$v=19$m=65536"},
		{"corrupted salt", "$argon2id$v=19$m=65536,t=3,p=4$!!!invalid$aGFzaA"},
		{"corrupted hash", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$!!!invalid"},
		{"garbage parameters", "$argon2id$v=19$nonsense$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifyPassword(tt.hash, "password") {
				t.Error("expected invalid hash to fail verification")
			}
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	hash2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash1 == hash2 {
		t.Error("expected different salts to produce different hashes")
	}
}

func TestHashPassword_SelfDescribing(t *testing.T) {
	hash, err := HashPassword("whatever")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// The PHC string carries algorithm, version, and parameters so
	// verification needs nothing but the hash itself.
	format := regexp.MustCompile(`^\$argon2id\$v=19\$m=\d+,t=\d+,p=\d+\$[A-Za-z0-9+/]+\$[A-Za-z0-9+/]+$`)
	if !format.MatchString(hash) {
		t.Errorf("hash does not match the PHC format: %s", hash)
	}
}

// --- Stream Key Tests ---

func TestGenerateStreamKey_Format(t *testing.T) {
	format := regexp.MustCompile(`^sgk_[a-zA-Z0-9]{6}_[a-zA-Z0-9]{26}$`)

	for i := 0; i < 100; i++ {
		key, err := GenerateStreamKey()
		if err != nil {
			t.Fatalf("GenerateStreamKey failed: %v", err)
		}
		if !format.MatchString(key) {
			t.Fatalf("key %q does not match the declared format", key)
		}
	}
}

func TestGenerateStreamKey_NoCollisions(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		key, err := GenerateStreamKey()
		if err != nil {
			t.Fatalf("GenerateStreamKey failed: %v", err)
		}
		if seen[key] {
			t.Fatalf("stream key collision after %d samples", i)
		}
		seen[key] = true
	}
}

// --- Token and Entropy Tests ---

func TestGenerateSessionToken(t *testing.T) {
	token1, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	token2, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	// 48 bytes base64url-encode to 64 characters.
	if len(token1) != 64 {
		t.Errorf("expected 64-char token, got %d chars", len(token1))
	}
	if token1 == token2 {
		t.Error("expected distinct tokens")
	}
}

func TestRandomBytes(t *testing.T) {
	b, err := RandomBytes(32)
	if err != nil {
		t.Fatalf("RandomBytes failed: %v", err)
	}
	if len(b) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(b))
	}

	// All-zero output would mean the entropy source never wrote.
	allZero := true
	for _, v := range b {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Error("expected random bytes, got all zeroes")
	}
}
