// Package auth validates the opaque caller identity carried on owner-facing
// requests. Identity issuance lives outside this system; the server only
// verifies the HMAC signature and extracts the stable user id.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kooo/evcam-companion/internal/common"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken mints an HS256 token for userID. Used by tests and by the
// companion CLI in development setups where no external identity provider
// is wired in.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// GetUserIDFromToken verifies the token signature and returns the caller's
// user id.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
