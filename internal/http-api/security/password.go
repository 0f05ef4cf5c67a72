package security

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a plaintext password into a one-way digest.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// BcryptHasher hashes with a fixed cost. The cost controls how long a
// verification takes; 10 (bcrypt.DefaultCost) lands in the tens of
// milliseconds on commodity hardware.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

// Hash creates a bcrypt hash from the given plaintext password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify checks if the provided plaintext password matches the stored bcrypt hash.
func (h *BcryptHasher) Verify(hashedPassword, providedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword))
}
