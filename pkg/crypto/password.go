package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor used for stored password hashes
	BcryptCost = 12

	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	return hashPasswordWithCost(password, BcryptCost)
}

func hashPasswordWithCost(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength reports whether password fits the accepted length range.
// bcrypt ignores input past 72 bytes, so longer passwords are refused.
func ValidatePasswordStrength(password string) bool {
	return len(password) >= MinPasswordLength && len(password) <= MaxPasswordLength
}
