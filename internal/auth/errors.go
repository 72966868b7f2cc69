// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is the uniform authentication failure returned
// for every unverifiable login or token, regardless of cause.
var ErrInvalidCredentials = oops.Code("AUTH_INVALID_CREDENTIALS").
	Errorf("could not validate credentials")
