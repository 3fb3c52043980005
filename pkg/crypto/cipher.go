package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrInvalidKey        = errors.New("encryption key must be 32 bytes")
	ErrMalformedCipher   = errors.New("ciphertext is malformed")
	ErrDecryptionFailure = errors.New("ciphertext could not be authenticated")
)

// Encrypt seals plaintext with XChaCha20-Poly1305 and returns base64(nonce || ciphertext)
func Encrypt(plaintext, key string) (string, error) {
	aead, err := chacha20poly1305.NewX([]byte(key))
	if err != nil {
		return "", ErrInvalidKey
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt
func Decrypt(encoded, key string) (string, error) {
	aead, err := chacha20poly1305.NewX([]byte(key))
	if err != nil {
		return "", ErrInvalidKey
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrMalformedCipher
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrMalformedCipher
	}

	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailure
	}
	return string(plain), nil
}

// MaskAPIKey keeps the first and last four characters of key visible
func MaskAPIKey(key string) string {
	if len(key) < 8 {
		return "********"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
