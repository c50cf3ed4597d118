// Package password wraps the credential hashing primitive behind a small
// capability so the rest of the code never depends on a concrete algorithm.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher derives and verifies one-way password digests.
type Hasher interface {
	Hash(raw string) (string, error)
	Verify(raw, digest string) bool
}

// DefaultCost balances hashing time against brute-force resistance.
const DefaultCost = 12

type bcryptHasher struct {
	cost int
}

// NewBcrypt returns a bcrypt-backed Hasher. A cost outside bcrypt's valid
// range falls back to DefaultCost.
func NewBcrypt(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(raw string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *bcryptHasher) Verify(raw, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(raw)) == nil
}
