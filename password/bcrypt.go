package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const algorithmBcrypt = "bcrypt"

// Bcrypt hashes passwords with bcrypt in modular-crypt format ($2a$...).
// The salt is generated by the library and embedded in the output, as is
// the cost, so Verify needs no configuration.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher with the given cost. Costs below the
// library default are rejected; they exist only in legacy stored hashes.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < bcrypt.DefaultCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &Bcrypt{cost: cost}, nil
}

// Algorithm returns "bcrypt".
func (b *Bcrypt) Algorithm() string {
	return algorithmBcrypt
}

// Hash encodes plaintext with a library-generated random salt.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify compares through the library's constant-time check. A mismatch is
// (false, nil); malformed stored material is (false, err).
func (b *Bcrypt) Verify(plaintext, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// NeedsUpgrade reports whether encoded was produced with a lower cost than
// currently configured.
func (b *Bcrypt) NeedsUpgrade(encoded string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		return false, err
	}
	return cost < b.cost, nil
}
