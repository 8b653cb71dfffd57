// Package auth provides session token issuance and validation, password
// hashing, and the request-gating middleware.
//
// Sessions are stateless HS256 JWTs: the token carries the user's email
// in the "sub" claim and an expiry seven days after issuance. Validity is
// fully determined by the signature and the expiry — nothing is stored
// server-side and there is no revocation.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the session lifetime: issuance + 7 days.
const TokenTTL = 7 * 24 * time.Hour

const issuer = "foodjudge"

// TokenService signs and verifies session tokens. The same HMAC secret is
// used for both; it must be at least 16 characters.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// In production the secret should be at least 32 bytes of random data,
// e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed token for the given email with the standard
// 7-day expiry.
func (s *TokenService) Issue(email string) (string, error) {
	return s.IssueWithDuration(email, TokenTTL)
}

// IssueWithDuration creates a token with a custom lifetime. Used by tests
// to produce already-expired tokens.
func (s *TokenService) IssueWithDuration(email string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the email it
// was issued for. Signature, expiry, issuer and algorithm are all
// checked; a token either passes everything or is rejected outright.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
