package hash

import "golang.org/x/crypto/bcrypt"

// Bcrypt hashes and verifies passwords with golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a hasher with the given cost; cost <= 0 uses the default.
func NewBcrypt(cost int) *Bcrypt {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash produces a one-way digest of the plain-text password.
func (b *Bcrypt) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether the plain-text password matches the stored digest.
func (b *Bcrypt) Verify(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
