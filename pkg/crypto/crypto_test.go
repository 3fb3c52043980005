package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	secrets := []string{"", "phemex-api-secret", strings.Repeat("x", 1024)}
	for _, s := range secrets {
		enc, err := Encrypt(s, testKey)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", s, err)
		}
		if s != "" && strings.Contains(enc, s) {
			t.Fatalf("ciphertext leaks plaintext")
		}
		dec, err := Decrypt(enc, testKey)
		if err != nil {
			t.Fatalf("Decrypt error: %v", err)
		}
		if dec != s {
			t.Fatalf("round trip got %q want %q", dec, s)
		}
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	a, _ := Encrypt("same", testKey)
	b, _ := Encrypt("same", testKey)
	if a == b {
		t.Fatalf("two encryptions of the same plaintext should differ")
	}
}

func TestDecryptFailures(t *testing.T) {
	enc, err := Encrypt("secret", testKey)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   string
		key     string
		wantErr error
	}{
		{"short key", enc, "short", ErrInvalidKey},
		{"not base64", "%%%", testKey, ErrMalformedCipher},
		{"truncated", "AAAA", testKey, ErrMalformedCipher},
		{"wrong key", enc, "fedcba9876543210fedcba9876543210", ErrDecryptionFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.input, tt.key)
			if err != tt.wantErr {
				t.Fatalf("got %v want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "********"},
		{"abc", "********"},
		{"abcdefgh", "abcd****efgh"},
		{"0123456789abcdef", "0123****cdef"},
	}
	for _, tt := range tests {
		if got := MaskAPIKey(tt.in); got != tt.want {
			t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPasswordWithCost("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword("correct horse", hash) {
		t.Fatalf("expected password to match")
	}
	if CheckPassword("wrong horse", hash) {
		t.Fatalf("expected mismatch")
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	if ValidatePasswordStrength("short") {
		t.Errorf("short password accepted")
	}
	if !ValidatePasswordStrength("longenough") {
		t.Errorf("valid password rejected")
	}
	if ValidatePasswordStrength(strings.Repeat("a", 73)) {
		t.Errorf("overlong password accepted")
	}
}
