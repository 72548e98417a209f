package store

import "golang.org/x/crypto/bcrypt"

// hashPassword hashes a plaintext password for storage. Both backends
// store only the hash; comparison semantics stay exact-match.
func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
