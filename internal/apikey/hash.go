package apikey

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// bcryptCost defines the computational cost for bcrypt hashing.
	// Cost 10 = ~60ms per hash (performance vs security balance).
	bcryptCost  = 10
	bcryptLimit = 72
)

// HashKey generates a bcrypt hash of the API key for secure storage.
// The API key is never stored in plaintext - only the bcrypt hash is kept.
//
// Note: Bcrypt has a 72-byte input limit. For longer keys, we pre-hash with
// SHA-256 to ensure consistent behavior while maintaining security
// properties.
func HashKey(apiKey string) (string, error) {
	if apiKey == "" {
		return "", ErrKeyNil
	}

	var input []byte

	if len(apiKey) > bcryptLimit {
		hasher := sha256.New()
		hasher.Write([]byte(apiKey))
		input = hasher.Sum(nil)
	} else {
		input = []byte(apiKey)
	}

	hash, err := bcrypt.GenerateFromPassword(input, bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash API key: %w", err)
	}

	return string(hash), nil
}

// CompareKeyHash performs constant-time comparison of an API key against a
// bcrypt hash. Returns false for any error condition (empty inputs, invalid
// hash format, etc.).
//
// Note: Must use same input preparation logic as HashKey for long keys.
func CompareKeyHash(hash, apiKey string) bool {
	if hash == "" || apiKey == "" {
		return false
	}

	var input []byte

	if len(apiKey) > bcryptLimit {
		hasher := sha256.New()
		hasher.Write([]byte(apiKey))
		input = hasher.Sum(nil)
	} else {
		input = []byte(apiKey)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), input)

	return err == nil
}
