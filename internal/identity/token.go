package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "clientdesk"

// SessionCodec signs and verifies session tokens using HS256.
type SessionCodec struct {
	key []byte
	ttl time.Duration
}

// NewSessionCodec builds a codec from the shared signing key.
func NewSessionCodec(key string, ttl time.Duration) (*SessionCodec, error) {
	if key == "" {
		return nil, errors.New("session signing key is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &SessionCodec{key: []byte(key), ttl: ttl}, nil
}

// Issue signs a session token for the given identity.
func (c *SessionCodec) Issue(identityID string) (string, error) {
	if identityID == "" {
		return "", errors.New("identity id is required")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   identityID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify validates a session token and returns the identity id it carries.
func (c *SessionCodec) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("session token missing subject")
	}
	return claims.Subject, nil
}
