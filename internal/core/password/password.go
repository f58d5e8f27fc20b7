// Package password wraps the one-way credential hash. bcrypt is salted,
// adaptive-cost, and its comparison does not leak timing beyond what the
// primitive itself guarantees.
package password

import "golang.org/x/crypto/bcrypt"

// HashLength is bcrypt's fixed encoded output length. Any stored hash of a
// different length is a data-integrity error.
const HashLength = 60

// Hash derives a one-way hash from plaintext at the default cost.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Matches reports whether plaintext corresponds to hash.
func Matches(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
