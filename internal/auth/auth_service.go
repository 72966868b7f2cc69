// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ErrDuplicate is returned by repositories when an insert or update
// violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate value")

// Transactor runs a function within a database transaction.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides authentication operations.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenIssuer
	tx     Transactor
}

// NewAuthService creates a new Service.
func NewAuthService(users UserRepository, hasher PasswordHasher, tokens *TokenIssuer, tx Transactor) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		tx:     tx,
	}
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// RegisterInput carries the fields for a registration request.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates the input, checks username and email uniqueness,
// and stores the new account. Validation happens before any state
// changes; the uniqueness checks and insert share one transaction.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if err := ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	var user *User
	err = s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		taken, checkErr := s.users.ExistsByUsername(txCtx, input.Username, ulid.ULID{})
		if checkErr != nil {
			return oops.Code("AUTH_REGISTER_FAILED").
				With("operation", "check username").
				Wrap(checkErr)
		}
		if taken {
			return oops.Code("AUTH_USERNAME_TAKEN").Errorf("username already registered")
		}

		taken, checkErr = s.users.ExistsByEmail(txCtx, input.Email, ulid.ULID{})
		if checkErr != nil {
			return oops.Code("AUTH_REGISTER_FAILED").
				With("operation", "check email").
				Wrap(checkErr)
		}
		if taken {
			return oops.Code("AUTH_EMAIL_TAKEN").Errorf("email already registered")
		}

		var newErr error
		user, newErr = NewUser(input.Username, input.Email, hash)
		if newErr != nil {
			return newErr
		}

		if createErr := s.users.Create(txCtx, user); createErr != nil {
			if errors.Is(createErr, ErrDuplicate) {
				return oops.Code("AUTH_USERNAME_TAKEN").Errorf("username already registered")
			}
			return oops.Code("AUTH_REGISTER_FAILED").
				With("operation", "create user").
				Wrap(createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues a bearer token.
// Uses constant-time operations to prevent timing-based username enumeration.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, lookupErr := s.users.GetByUsername(ctx, username)

	// Determine which hash to verify against (real or dummy for timing attack prevention)
	var targetHash string
	var userExists bool

	if lookupErr != nil {
		if errors.Is(lookupErr, ErrNotFound) {
			// Use dummy hash - still perform verification to maintain constant time
			targetHash = dummyPasswordHash
			userExists = false
		} else {
			return "", time.Time{}, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	// Always verify password (constant-time operation for timing attack prevention)
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// For dummy hash verification errors, just treat as invalid
		if !userExists {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	// If user doesn't exist OR password invalid, return same error
	if !userExists || !valid {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", time.Time{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}
	return token, expiresAt, nil
}

// Authenticate resolves a bearer token to its user. A valid token
// whose subject no longer exists fails the same way as a forged one.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "get user by username").
			Wrap(err)
	}
	return user, nil
}

// UpdateProfileInput carries the fields for a profile update. The
// password fields are optional; when NewPassword is empty the stored
// hash is kept.
type UpdateProfileInput struct {
	Username        string
	Email           string
	NewPassword     string
	ConfirmPassword string
}

// UpdateProfile replaces the user's username and email, and optionally
// the password. Uniqueness checks exclude the user's own record so an
// unchanged username or email is never reported as taken.
func (s *Service) UpdateProfile(ctx context.Context, userID ulid.ULID, input UpdateProfileInput) (*User, error) {
	if err := ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	var newHash string
	if input.NewPassword != "" {
		if err := ValidatePassword(input.NewPassword, input.ConfirmPassword); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return nil, oops.Code("AUTH_PROFILE_UPDATE_FAILED").
				With("operation", "hash password").
				Wrap(err)
		}
		newHash = hash
	}

	var user *User
	err := s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		var getErr error
		user, getErr = s.users.GetByID(txCtx, userID)
		if getErr != nil {
			if errors.Is(getErr, ErrNotFound) {
				return ErrInvalidCredentials
			}
			return oops.Code("AUTH_PROFILE_UPDATE_FAILED").
				With("operation", "get user by id").
				Wrap(getErr)
		}

		taken, checkErr := s.users.ExistsByUsername(txCtx, input.Username, userID)
		if checkErr != nil {
			return oops.Code("AUTH_PROFILE_UPDATE_FAILED").
				With("operation", "check username").
				Wrap(checkErr)
		}
		if taken {
			return oops.Code("AUTH_USERNAME_TAKEN").Errorf("username already registered")
		}

		taken, checkErr = s.users.ExistsByEmail(txCtx, input.Email, userID)
		if checkErr != nil {
			return oops.Code("AUTH_PROFILE_UPDATE_FAILED").
				With("operation", "check email").
				Wrap(checkErr)
		}
		if taken {
			return oops.Code("AUTH_EMAIL_TAKEN").Errorf("email already registered")
		}

		user.Username = input.Username
		user.Email = input.Email
		if newHash != "" {
			user.PasswordHash = newHash
		}
		user.UpdatedAt = time.Now()

		if updateErr := s.users.Update(txCtx, user); updateErr != nil {
			if errors.Is(updateErr, ErrDuplicate) {
				return oops.Code("AUTH_USERNAME_TAKEN").Errorf("username already registered")
			}
			return oops.Code("AUTH_PROFILE_UPDATE_FAILED").
				With("operation", "update user").
				Wrap(updateErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
