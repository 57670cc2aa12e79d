package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingToken = errors.New("missing or invalid token")
	ErrInvalidToken = errors.New("invalid token")
)

var (
	mu        sync.RWMutex
	jwtSecret = []byte("super-secret-key")
	tokenTTL  = 30 * 24 * time.Hour
)

// Configure sets the signing secret and lifetime of session tokens.
func Configure(secret string, ttl time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

func settings() ([]byte, time.Duration) {
	mu.RLock()
	defer mu.RUnlock()
	return jwtSecret, tokenTTL
}

// GenerateSessionToken starts an anonymous shopper session and returns its
// id together with the signed token carrying it.
func GenerateSessionToken() (session, token string, expiresAt time.Time, err error) {
	secret, ttl := settings()
	session = uuid.NewString()
	expiresAt = time.Now().Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   session,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return session, token, expiresAt, nil
}

// ParseSessionToken validates tokenStr and returns the session id it carries.
func ParseSessionToken(tokenStr string) (string, error) {
	secret, _ := settings()

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// SessionFromHeader extracts the session id from an Authorization header.
func SessionFromHeader(authorization string) (string, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return "", ErrMissingToken
	}
	return ParseSessionToken(strings.TrimPrefix(authorization, "Bearer "))
}
