package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// HashPassword computes the salted keyed hash stored for a credential:
// hex(HMAC-SHA256(secret, salt||password)). The salt is caller-supplied and
// prepended, so the digest is reproducible for login checks and for the
// password-history reuse ledger.
func HashPassword(secret []byte, salt, password string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(salt + password))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidPassword enforces the registration password policy: at least eight
// characters, one lowercase, one uppercase, one digit, and no occurrence of
// the username, first name, or last name (case-insensitive).
func ValidPassword(password, username, firstName, lastName string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return false
	}

	lowered := strings.ToLower(password)
	for _, part := range []string{username, firstName, lastName} {
		if part != "" && strings.Contains(lowered, strings.ToLower(part)) {
			return false
		}
	}
	return true
}
