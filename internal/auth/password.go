package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// saltSeparator joins password and lowercased email in the legacy digest
// scheme inherited from earlier roster versions.
const saltSeparator = "::"

// HashPassword hashes a plaintext password with configured cost. All newly
// stored credentials use this form.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// LegacyDigest computes the historical sha256(password + "::" + email)
// credential. Kept only to verify stored legacy digests during migration.
func LegacyDigest(password, email string) string {
	sum := sha256.Sum256([]byte(password + saltSeparator + domain.NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}

// IsBcryptHash reports whether a stored credential is in bcrypt form.
func IsBcryptHash(credential string) bool {
	return strings.HasPrefix(credential, "$2")
}

// IsLegacyDigest reports whether a stored credential has the fixed-length
// lowercase hex shape of the legacy digest.
func IsLegacyDigest(credential string) bool {
	if len(credential) != sha256.Size*2 {
		return false
	}
	for _, c := range credential {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// VerifyCredential checks password against a stored credential of any shape.
// For legacy shapes (hex digest or plaintext) a successful match also returns
// a replacement bcrypt credential the caller must persist; for an up-to-date
// credential the replacement is empty.
func VerifyCredential(stored, password, email string, cost int) (ok bool, upgraded string, err error) {
	switch {
	case IsBcryptHash(stored):
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) != nil {
			return false, "", nil
		}
		return true, "", nil
	case IsLegacyDigest(stored):
		digest := LegacyDigest(password, email)
		if subtle.ConstantTimeCompare([]byte(stored), []byte(digest)) != 1 {
			return false, "", nil
		}
	default:
		if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
			return false, "", nil
		}
	}

	upgraded, err = HashPassword(password, cost)
	if err != nil {
		return false, "", err
	}
	return true, upgraded, nil
}
