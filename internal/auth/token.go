// Package auth provides the session-token issuer, the gin middleware that
// resolves the caller's identity, and the Google OAuth provider.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "show-and-tell-api"

// defaultTokenTTL bounds how long an issued session token stays valid.
const defaultTokenTTL = 72 * time.Hour

// Claims is the token payload: standard registered claims plus the account
// email. The subject carries the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenService signs and verifies the opaque bearer tokens handed out at
// login. HS256 with a shared secret; the same secret verifies on every
// authenticated request.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. Short secrets are rejected
// outright rather than silently weakening every token issued.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), ttl: defaultTokenTTL}, nil
}

// Generate signs a token embedding the user's ID and email.
func (s *TokenService) Generate(userID uint, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies a token string and returns the embedded identity.
// Only HS256 tokens from this issuer are accepted.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, errors.New("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return Identity{}, errors.New("auth: invalid token claims")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return Identity{}, errors.New("auth: token has no usable subject")
	}

	return Identity{UserID: uint(userID), Email: claims.Email}, nil
}
