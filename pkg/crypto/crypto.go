package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether candidate matches the stored bcrypt hash.
// A malformed hash simply fails the comparison.
func VerifyPassword(hashedPassword, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(candidate)) == nil
}
