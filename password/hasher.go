// Package password provides one-way credential hashing with an embedded
// algorithm identifier, so the active algorithm can change without a schema
// migration: every encoded hash names the algorithm that produced it, and a
// Chain verifies against whichever one matches.
package password

import (
	"errors"
	"strings"
)

// Hasher is the contract for a single hash algorithm. Hash must salt
// randomly per call; Verify must use a constant-time comparison.
type Hasher interface {
	// Algorithm returns the identifier embedded in encoded output.
	Algorithm() string
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) (bool, error)
	// NeedsUpgrade reports whether encoded was produced with weaker
	// parameters than the hasher is currently configured with.
	NeedsUpgrade(encoded string) (bool, error)
}

// ErrUnknownFormat reports stored hash material no registered algorithm
// recognizes.
var ErrUnknownFormat = errors.New("unrecognized password hash format")

// Chain verifies against the algorithm that produced a stored hash and
// hashes new material with the primary. A hash produced by a non-primary
// member always reports NeedsUpgrade, which is the migration path from a
// retired algorithm.
type Chain struct {
	primary Hasher
	members []Hasher
}

// NewChain builds a chain with primary first. Legacy hashers only verify;
// they never produce new hashes.
func NewChain(primary Hasher, legacy ...Hasher) *Chain {
	members := make([]Hasher, 0, len(legacy)+1)
	members = append(members, primary)
	members = append(members, legacy...)
	return &Chain{primary: primary, members: members}
}

// Hash encodes plaintext with the primary algorithm.
func (c *Chain) Hash(plaintext string) (string, error) {
	return c.primary.Hash(plaintext)
}

// Verify resolves the stored hash to its algorithm and checks plaintext
// against it. Corrupt or unrecognized material is a verification failure,
// not an error: login must not 500 on a bad row.
func (c *Chain) Verify(plaintext, encoded string) bool {
	h := c.resolve(encoded)
	if h == nil {
		return false
	}
	ok, err := h.Verify(plaintext, encoded)
	if err != nil {
		return false
	}
	return ok
}

// NeedsUpgrade reports whether a verified hash should be re-encoded with
// the primary algorithm and current parameters.
func (c *Chain) NeedsUpgrade(encoded string) bool {
	h := c.resolve(encoded)
	if h == nil {
		return true
	}
	if h.Algorithm() != c.primary.Algorithm() {
		return true
	}
	needs, err := h.NeedsUpgrade(encoded)
	if err != nil {
		return true
	}
	return needs
}

// Algorithm returns the primary algorithm identifier.
func (c *Chain) Algorithm() string {
	return c.primary.Algorithm()
}

func (c *Chain) resolve(encoded string) Hasher {
	for _, h := range c.members {
		if matchesAlgorithm(h.Algorithm(), encoded) {
			return h
		}
	}
	return nil
}

func matchesAlgorithm(algorithm, encoded string) bool {
	switch algorithm {
	case algorithmArgon2id:
		return strings.HasPrefix(encoded, "$"+algorithmArgon2id+"$")
	case algorithmBcrypt:
		// Modular-crypt bcrypt prefixes: $2a$, $2b$, $2y$.
		return strings.HasPrefix(encoded, "$2")
	default:
		return false
	}
}
