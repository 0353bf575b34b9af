package utils

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the work factor the dashboard has always used.
const DefaultBcryptCost = 10

// HashPassword returns bcrypt hash using the given cost.  bcrypt salts each
// call itself, so hashing the same password twice yields different digests.
func HashPassword(plain string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.  A mismatch
// is reported as false, never as an error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
