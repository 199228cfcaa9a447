package password

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for new hashes.
const DefaultCost = 10

// MaxLength is the longest password bcrypt accepts, in bytes.
const MaxLength = 72

var ErrTooLong = bcrypt.ErrPasswordTooLong

// Hasher hashes and verifies plaintext passwords.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{Cost: DefaultCost}
}

func (b BcryptHasher) Hash(plain string) (string, error) {
	if len(plain) > MaxLength {
		return "", ErrTooLong
	}
	cost := b.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches hash. A malformed hash never matches.
func (b BcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
