package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/tappress/checkbox/internal/errors"
)

// Codec encodes and decodes the signed, expiring tokens that identify a user.
// Tokens carry only the subject (user id) and expiry; the same codec serves
// access and refresh tokens, which differ only in secret and TTL.
type Codec struct {
	method jwt.SigningMethod
}

// NewCodec creates a codec for the given HMAC signing algorithm (HS256, HS384
// or HS512).
func NewCodec(algorithm string) (*Codec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}
	return &Codec{method: method}, nil
}

// Encode signs a token for the user that expires after ttl.
func (c *Codec) Encode(userID string, ttl time.Duration, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(c.method, claims).SignedString(secret)
}

// Decode verifies a token and returns its subject. Malformed tokens, bad
// signatures, algorithm mismatches, expired tokens and tokens without a
// subject all fail with the same Unauthorized error.
func (c *Codec) Decode(tokenString string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return "", errors.NewUnauthorized("Could not validate credentials")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.NewUnauthorized("Could not validate credentials")
	}
	return claims.Subject, nil
}
