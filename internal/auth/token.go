// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultTokenTTL is the bearer token lifetime used when the
// configuration does not override it.
const DefaultTokenTTL = 30 * time.Minute

// TokenIssuer issues and validates signed bearer tokens. Tokens are
// HS256 JWTs carrying the username as subject and an expiry claim;
// they are self-contained and never stored server-side.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. The secret must be non-empty
// and the TTL positive.
func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, oops.Code("AUTH_TOKEN_CONFIG").Errorf("token secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, oops.Code("AUTH_TOKEN_CONFIG").Errorf("token ttl must be positive")
	}
	return &TokenIssuer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the subject and returns it with its expiry.
func (t *TokenIssuer) Issue(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			Errorf("token subject cannot be empty")
	}

	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, oops.Code("AUTH_TOKEN_ISSUE_FAILED").Wrap(err)
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a token, returning its subject.
// Every failure mode returns ErrInvalidCredentials so callers cannot
// distinguish a forged token from an expired one.
func (t *TokenIssuer) Validate(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidCredentials
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)

	claims := &jwt.RegisteredClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}
