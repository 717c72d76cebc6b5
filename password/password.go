// Package password hashes and verifies login credentials with bcrypt.
// Hashing is deliberately slow; keep it off latency-sensitive paths.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces and checks bcrypt hashes with a caller-supplied cost
// factor. Plaintext passwords must never be logged or persisted.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost, clamped to the
// algorithm's supported range. Cost 12 is a reasonable interactive default.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Cost reports the active cost factor.
func (h *Hasher) Cost() int { return h.cost }

// Hash derives a salted bcrypt hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password: empty plaintext")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hash. A mismatch is a false
// return, never an error; the comparison cost does not depend on the
// outcome.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
