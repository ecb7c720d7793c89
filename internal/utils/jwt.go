package utils

import (
	"time" // Token lifetime

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// tokenTTL bounds how long an issued token stays valid.
const tokenTTL = 24 * time.Hour

// issuer stamped into every token and required back on parse. Rejects
// tokens minted by other services sharing the same secret.
const issuer = "library_system"

// Claims carried by every issued token.
type Claims struct {
	UserID               uint `json:"user_id"` // Authenticated user id
	jwt.RegisteredClaims      // Standard JWT claims
}

// GenerateJWT issues a signed HS256 token for the given user id.
func GenerateJWT(userID uint, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)), // Tokens expire after 24 hours
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWT validates a token string and extracts its claims. Malformed,
// unsigned, expired, tampered, wrong-algorithm, and wrong-issuer tokens
// all fail closed.
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
