// Package password hashes and verifies user credentials with bcrypt.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor applied to every stored credential.
	DefaultCost = 12

	// MaxLength is the number of leading bytes bcrypt takes into account.
	// Longer input is truncated silently before hashing and verifying.
	MaxLength = 72
)

// Hasher turns plaintext passwords into self-describing bcrypt hashes.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given cost, or DefaultCost when cost is
// outside the range bcrypt accepts.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted hash of password. Every call draws a fresh salt.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > MaxLength {
		b = b[:MaxLength]
	}
	return b
}
