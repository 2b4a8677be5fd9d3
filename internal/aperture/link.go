package aperture

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// LinkVerifier checks link credentials against grants.
type LinkVerifier struct {
	// dummy is compared against when no grant matched so that an unknown
	// code costs the same as a wrong password.
	dummy []byte
}

// NewLinkVerifier creates a verifier whose timing padding uses cost.
func NewLinkVerifier(cost int) *LinkVerifier {
	dummy, err := bcrypt.GenerateFromPassword([]byte("aperturama"), cost)
	if err != nil {
		// Only an out-of-range cost fails; fall back to the default.
		dummy, _ = bcrypt.GenerateFromPassword([]byte("aperturama"), bcrypt.DefaultCost)
	}
	return &LinkVerifier{dummy: dummy}
}

// VerifyLink reports whether code and password satisfy the link grant g.
// A grant without a password accepts any password, including none.
func (v *LinkVerifier) VerifyLink(code, password string, g *Grant) bool {
	if g == nil || !g.LinkCode.Valid {
		v.pad(password)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(g.LinkCode.String)) != 1 {
		v.pad(password)
		return false
	}
	if !g.PasswordHash.Valid {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(g.PasswordHash.String), []byte(password)) == nil
}

// pad spends one bcrypt comparison.
func (v *LinkVerifier) pad(password string) {
	_ = bcrypt.CompareHashAndPassword(v.dummy, []byte(password))
}

// HashLinkPassword hashes a link password for storage. An empty password
// means the link is unprotected and yields "".
func HashLinkPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing link password: %w", err)
	}
	return string(hash), nil
}

// NewLinkCode returns a random URL-safe link code built from n bytes.
func NewLinkCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating link code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
