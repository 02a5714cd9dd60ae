package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

var (
	ErrMalformedHash    = errors.New("malformed password hash")
	ErrPasswordMismatch = errors.New("password does not match")
)

const (
	// SaltLength is the random salt size in bytes (128 bits)
	SaltLength = 16
	// Iterations is the PBKDF2 iteration count
	Iterations = 1000
	// KeyLength is the derived key size in bytes (256 bits)
	KeyLength = 32
	// hashSeparator joins the hex salt and hex derived key
	hashSeparator = ":"
)

// HashPassword derives a salted PBKDF2-SHA256 hash of the password and
// returns it as "salt:hash" with both parts hex-encoded. Every call
// generates a fresh salt, so hashing the same password twice yields
// different stored strings.
func HashPassword(password string) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	saltHex := hex.EncodeToString(salt)
	derived := pbkdf2.Key([]byte(password), []byte(saltHex), Iterations, KeyLength, sha256.New)

	return saltHex + hashSeparator + hex.EncodeToString(derived), nil
}

// VerifyPassword re-derives the hash with the stored salt and compares
// it against the stored value in constant time. A stored value without
// the separator is ErrMalformedHash; callers treat that as non-matching.
func VerifyPassword(hashedPassword, password string) error {
	saltHex, storedHex, found := strings.Cut(hashedPassword, hashSeparator)
	if !found || saltHex == "" || storedHex == "" {
		return ErrMalformedHash
	}

	stored, err := hex.DecodeString(storedHex)
	if err != nil {
		return ErrMalformedHash
	}

	derived := pbkdf2.Key([]byte(password), []byte(saltHex), Iterations, KeyLength, sha256.New)
	if subtle.ConstantTimeCompare(derived, stored) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
