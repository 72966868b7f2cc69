// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package auth

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// usernameRegex matches usernames containing only letters, numbers,
// and underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// User represents a registered account.
type User struct {
	ID           ulid.ULID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a User with a fresh ULID after validating the
// username and email. The password hash must already be computed.
func NewUser(username, email, passwordHash string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	now := time.Now()
	return &User{
		ID:           ulid.Make(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateUsername validates a username against rules.
// Username requirements:
// - Length: MinUsernameLength to MaxUsernameLength characters
// - Can contain only letters (a-z, A-Z), numbers (0-9), and underscores (_)
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if len(username) < MinUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("AUTH_INVALID_USERNAME").
			Errorf("username may contain only letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail checks that the email is a single plain address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email address is not valid")
	}
	if !strings.Contains(email, ".") {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email domain is not valid")
	}
	return nil
}

// ValidatePassword enforces the password policy and the confirmation
// match. Password requirements:
// - At least MinPasswordLength characters
// - At least one uppercase letter, one lowercase letter, one digit,
//   and one punctuation or symbol character
func ValidatePassword(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return oops.Code("AUTH_INVALID_PASSWORD").
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return oops.Code("AUTH_INVALID_PASSWORD").Errorf("password must contain an uppercase letter")
	case !hasLower:
		return oops.Code("AUTH_INVALID_PASSWORD").Errorf("password must contain a lowercase letter")
	case !hasDigit:
		return oops.Code("AUTH_INVALID_PASSWORD").Errorf("password must contain a digit")
	case !hasSpecial:
		return oops.Code("AUTH_INVALID_PASSWORD").Errorf("password must contain a special character")
	}

	if password != confirm {
		return oops.Code("AUTH_PASSWORD_MISMATCH").Errorf("password confirmation does not match")
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByUsername retrieves a user by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*User, error)

	// ExistsByUsername reports whether any user has the username
	// (case-insensitive). When except is non-zero, that user is
	// excluded from the check.
	ExistsByUsername(ctx context.Context, username string, except ulid.ULID) (bool, error)

	// ExistsByEmail reports whether any user has the email
	// (case-insensitive). When except is non-zero, that user is
	// excluded from the check.
	ExistsByEmail(ctx context.Context, email string, except ulid.ULID) (bool, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *User) error

	// Delete removes a user.
	Delete(ctx context.Context, id ulid.ULID) error
}
