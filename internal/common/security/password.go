package security

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPassword produces a salted one-way hash; the salt is embedded in the
// hash itself.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
