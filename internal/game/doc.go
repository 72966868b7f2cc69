// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

// Package game holds the character and inventory domain.
//
// Every read and mutation of a character or item is scoped to the
// owning user. Lookups filter by the owner at the query level, so a
// record belonging to someone else is indistinguishable from one that
// does not exist. Service re-runs that check on each call; ownership
// is never cached across requests.
package game
