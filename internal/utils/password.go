package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a registration password with bcrypt at the given
// cost. The cost comes from BCRYPT_COST so tests can run at
// bcrypt.MinCost while production uses a slow factor; the per-user salt
// is generated by bcrypt itself and embedded in the returned hash.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the hash stored in
// users.password_hash. The comparison is constant-time; any bcrypt
// error, including a malformed hash, counts as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
