package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt digest stored in users.password_hash. The
// work factor comes from BCRYPT_COST; a value outside bcrypt's supported
// range falls back to the library default instead of failing registration.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plain matches the stored digest. Any
// comparison error, including a malformed digest, counts as a mismatch;
// login treats a mismatch as a result, not an error.
func VerifyPassword(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
