package security

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rideshare-market/backend/internal/common"
)

// TokenClaims carries the single claim the platform encodes into a bearer
// token: the subject username. Tokens have no expiry; they stay valid until
// the shared secret rotates.
type TokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token over the subject username. The output is
// deterministic for identical inputs and secret.
func IssueToken(secret []byte, username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{Username: username})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks structural well-formedness and the integrity tag
// (constant-time, inside the HMAC verifier) and returns the subject username.
// Whether that subject still exists is the caller's concern.
func VerifyToken(secret []byte, tokenString string) (string, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("parsing token: %w", common.ErrUnauthorized)
	}
	if !token.Valid || claims.Username == "" {
		return "", common.ErrUnauthorized
	}
	return claims.Username, nil
}
