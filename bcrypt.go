package accounts

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a salted password hash. Two calls with the same
// input produce different digests. Length and charset policy is enforced by
// the callers, not here.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password against
// the hashed password. Any failure, including a malformed digest, surfaces
// as ErrMismatchedHashAndPassword so callers cannot tell the cases apart.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}
