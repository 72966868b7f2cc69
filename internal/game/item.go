// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package game

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Item represents an inventory item carried by a character. Type is a
// free-form tag such as "weapon", "armor", or "potion".
type Item struct {
	ID          ulid.ULID
	CharacterID ulid.ULID
	Name        string
	Description string
	Type        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewItem creates an Item for the character after validating its name.
// Description and type are free-form and may be empty.
func NewItem(characterID ulid.ULID, name, description, itemType string) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, oops.Code("ITEM_INVALID").Errorf("item name cannot be empty")
	}

	now := time.Now()
	return &Item{
		ID:          ulid.Make(),
		CharacterID: characterID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Type:        itemType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ItemRepository manages item persistence.
type ItemRepository interface {
	// Create stores a new item.
	Create(ctx context.Context, item *Item) error

	// GetOwned retrieves an item by ID if it belongs to characterID
	// and that character belongs to ownerID, checked as a single
	// joined lookup. Returns ErrNotFound on any mismatch.
	GetOwned(ctx context.Context, id, characterID, ownerID ulid.ULID) (*Item, error)

	// ListByCharacter returns every item carried by characterID.
	ListByCharacter(ctx context.Context, characterID ulid.ULID) ([]*Item, error)

	// Update updates an existing item.
	Update(ctx context.Context, item *Item) error

	// Delete removes an item.
	Delete(ctx context.Context, id ulid.ULID) error
}
