// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

// Package auth provides authentication primitives for rpgvault.
//
// # Domain Types
//
// User should be created with NewUser, which validates the username and
// email before returning. Direct struct initialization bypasses
// validation and may create invalid state. Repository implementations
// receive pre-validated values from the constructor.
//
// # Services
//
// Service coordinates registration, login, profile updates, and bearer
// token authentication. TokenIssuer issues and validates the signed
// tokens. Both are created with New* constructors that validate their
// dependencies.
//
// Every token failure mode (bad signature, expired, missing subject,
// subject without a matching user) collapses into the single
// ErrInvalidCredentials error so callers cannot probe which part failed.
package auth
