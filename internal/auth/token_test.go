// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgvault/rpgvault/internal/auth"
	"github.com/rpgvault/rpgvault/pkg/errutil"
)

var tokenSecret = []byte("test-secret-do-not-use-in-production")

func TestNewTokenIssuer(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := auth.NewTokenIssuer(nil, time.Minute)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_TOKEN_CONFIG")
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		_, err := auth.NewTokenIssuer(tokenSecret, 0)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_TOKEN_CONFIG")
	})
}

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(tokenSecret, 30*time.Minute)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		token, expiresAt, err := issuer.Issue("aragorn")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

		subject, err := issuer.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "aragorn", subject)
	})

	t.Run("rejects empty subject", func(t *testing.T) {
		_, _, err := issuer.Issue("")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_TOKEN_ISSUE_FAILED")
	})
}

func TestTokenIssuer_Validate_Failures(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(tokenSecret, 30*time.Minute)
	require.NoError(t, err)

	t.Run("empty token", func(t *testing.T) {
		_, err := issuer.Validate("")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := issuer.Validate("not.a.token")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		forged := signTestToken(t, []byte("attacker-key"), jwt.RegisteredClaims{
			Subject:   "aragorn",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		_, err := issuer.Validate(forged)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := signTestToken(t, tokenSecret, jwt.RegisteredClaims{
			Subject:   "aragorn",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})
		_, err := issuer.Validate(expired)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("missing expiry claim", func(t *testing.T) {
		noExpiry := signTestToken(t, tokenSecret, jwt.RegisteredClaims{
			Subject: "aragorn",
		})
		_, err := issuer.Validate(noExpiry)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("missing subject claim", func(t *testing.T) {
		noSubject := signTestToken(t, tokenSecret, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		_, err := issuer.Validate(noSubject)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unsigned token", func(t *testing.T) {
		unsigned, signErr := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "aragorn",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, signErr)

		_, err := issuer.Validate(unsigned)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func signTestToken(t *testing.T, key []byte, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}
