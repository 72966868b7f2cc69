// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package game

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ErrNotFound is returned when a character or item does not exist or
// is not owned by the caller. The two cases are deliberately merged.
var ErrNotFound = errors.New("not found")

// DefaultLevel is the character level used when none is supplied.
const DefaultLevel = 1

// Character represents a playable character owned by a user.
type Character struct {
	ID        ulid.ULID
	OwnerID   ulid.ULID
	Name      string
	Class     string
	Level     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCharacter creates a Character for the owner after validating its
// fields. A zero level becomes DefaultLevel.
func NewCharacter(ownerID ulid.ULID, name, class string, level int) (*Character, error) {
	if err := validateCharacterFields(name, class, level); err != nil {
		return nil, err
	}
	if level == 0 {
		level = DefaultLevel
	}

	now := time.Now()
	return &Character{
		ID:        ulid.Make(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(name),
		Class:     strings.TrimSpace(class),
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validateCharacterFields(name, class string, level int) error {
	if strings.TrimSpace(name) == "" {
		return oops.Code("CHARACTER_INVALID").Errorf("character name cannot be empty")
	}
	if strings.TrimSpace(class) == "" {
		return oops.Code("CHARACTER_INVALID").Errorf("character class cannot be empty")
	}
	if level < 0 {
		return oops.Code("CHARACTER_INVALID").Errorf("character level cannot be negative")
	}
	return nil
}

// CharacterRepository manages character persistence. Owner-scoped
// methods treat "missing" and "owned by someone else" identically.
type CharacterRepository interface {
	// Create stores a new character.
	Create(ctx context.Context, char *Character) error

	// GetOwned retrieves a character by ID if it belongs to ownerID.
	// Returns ErrNotFound otherwise.
	GetOwned(ctx context.Context, id, ownerID ulid.ULID) (*Character, error)

	// ListByOwner returns every character owned by ownerID.
	ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*Character, error)

	// ExistsByName reports whether ownerID already has a character
	// with the name (case-insensitive). When except is non-zero,
	// that character is excluded from the check.
	ExistsByName(ctx context.Context, ownerID ulid.ULID, name string, except ulid.ULID) (bool, error)

	// Update updates an existing character.
	Update(ctx context.Context, char *Character) error

	// Delete removes a character if it belongs to ownerID.
	// Returns ErrNotFound otherwise. Items go with it.
	Delete(ctx context.Context, id, ownerID ulid.ULID) error
}
