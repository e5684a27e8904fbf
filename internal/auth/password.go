package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed; raising it invalidates no existing digests because
// the cost is encoded in each digest.
const bcryptCost = 10

// HashPassword hashes a password using bcrypt with a per-call random salt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a bcrypt digest. Returns false
// for malformed digests, never an error.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
