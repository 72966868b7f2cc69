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

	"github.com/rpgvault/rpgvault/internal/auth"
)

// Service provides character and inventory operations. Every method
// takes the authenticated owner's ID and enforces ownership before
// touching the target record; writes run inside one transaction.
type Service struct {
	characters CharacterRepository
	items      ItemRepository
	tx         auth.Transactor
}

// NewService creates a new Service.
func NewService(characters CharacterRepository, items ItemRepository, tx auth.Transactor) *Service {
	return &Service{
		characters: characters,
		items:      items,
		tx:         tx,
	}
}

// CharacterInput carries the fields for creating or replacing a
// character. A zero Level means DefaultLevel on create.
type CharacterInput struct {
	Name  string
	Class string
	Level int
}

// ItemInput carries the fields for creating or replacing an item.
type ItemInput struct {
	Name        string
	Description string
	Type        string
}

// CreateCharacter validates the input, checks the per-owner name
// uniqueness, and stores the character.
func (s *Service) CreateCharacter(ctx context.Context, ownerID ulid.ULID, input CharacterInput) (*Character, error) {
	if err := validateCharacterFields(input.Name, input.Class, input.Level); err != nil {
		return nil, err
	}

	var char *Character
	err := s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		taken, checkErr := s.characters.ExistsByName(txCtx, ownerID, strings.TrimSpace(input.Name), ulid.ULID{})
		if checkErr != nil {
			return oops.Code("CHARACTER_CREATE_FAILED").
				With("operation", "check name").
				Wrap(checkErr)
		}
		if taken {
			return oops.Code("CHARACTER_NAME_TAKEN").Errorf("character name already used")
		}

		var newErr error
		char, newErr = NewCharacter(ownerID, input.Name, input.Class, input.Level)
		if newErr != nil {
			return newErr
		}

		if createErr := s.characters.Create(txCtx, char); createErr != nil {
			if errors.Is(createErr, auth.ErrDuplicate) {
				return oops.Code("CHARACTER_NAME_TAKEN").Errorf("character name already used")
			}
			return oops.Code("CHARACTER_CREATE_FAILED").
				With("operation", "create character").
				Wrap(createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return char, nil
}

// GetCharacter returns the owner's character by ID.
func (s *Service) GetCharacter(ctx context.Context, ownerID, characterID ulid.ULID) (*Character, error) {
	return s.characters.GetOwned(ctx, characterID, ownerID)
}

// ListCharacters returns every character owned by the user.
func (s *Service) ListCharacters(ctx context.Context, ownerID ulid.ULID) ([]*Character, error) {
	return s.characters.ListByOwner(ctx, ownerID)
}

// UpdateCharacter replaces the character's name, class, and level.
// The name uniqueness check excludes the character itself.
func (s *Service) UpdateCharacter(ctx context.Context, ownerID, characterID ulid.ULID, input CharacterInput) (*Character, error) {
	if err := validateCharacterFields(input.Name, input.Class, input.Level); err != nil {
		return nil, err
	}

	var char *Character
	err := s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		var getErr error
		char, getErr = s.characters.GetOwned(txCtx, characterID, ownerID)
		if getErr != nil {
			return getErr
		}

		taken, checkErr := s.characters.ExistsByName(txCtx, ownerID, strings.TrimSpace(input.Name), characterID)
		if checkErr != nil {
			return oops.Code("CHARACTER_UPDATE_FAILED").
				With("operation", "check name").
				Wrap(checkErr)
		}
		if taken {
			return oops.Code("CHARACTER_NAME_TAKEN").Errorf("character name already used")
		}

		char.Name = strings.TrimSpace(input.Name)
		char.Class = strings.TrimSpace(input.Class)
		if input.Level == 0 {
			char.Level = DefaultLevel
		} else {
			char.Level = input.Level
		}
		char.UpdatedAt = time.Now()

		if updateErr := s.characters.Update(txCtx, char); updateErr != nil {
			return oops.Code("CHARACTER_UPDATE_FAILED").
				With("operation", "update character").
				Wrap(updateErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return char, nil
}

// DeleteCharacter removes the owner's character and its inventory.
func (s *Service) DeleteCharacter(ctx context.Context, ownerID, characterID ulid.ULID) error {
	return s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		return s.characters.Delete(txCtx, characterID, ownerID)
	})
}

// AddItem stores a new item in the character's inventory. The
// character lookup doubles as the ownership check.
func (s *Service) AddItem(ctx context.Context, ownerID, characterID ulid.ULID, input ItemInput) (*Item, error) {
	var item *Item
	err := s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		if _, getErr := s.characters.GetOwned(txCtx, characterID, ownerID); getErr != nil {
			return getErr
		}

		var newErr error
		item, newErr = NewItem(characterID, input.Name, input.Description, input.Type)
		if newErr != nil {
			return newErr
		}

		if createErr := s.items.Create(txCtx, item); createErr != nil {
			return oops.Code("ITEM_CREATE_FAILED").
				With("operation", "create item").
				Wrap(createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns an item from the owner's character.
func (s *Service) GetItem(ctx context.Context, ownerID, characterID, itemID ulid.ULID) (*Item, error) {
	return s.items.GetOwned(ctx, itemID, characterID, ownerID)
}

// ListItems returns the character's inventory.
func (s *Service) ListItems(ctx context.Context, ownerID, characterID ulid.ULID) ([]*Item, error) {
	if _, err := s.characters.GetOwned(ctx, characterID, ownerID); err != nil {
		return nil, err
	}
	return s.items.ListByCharacter(ctx, characterID)
}

// UpdateItem replaces every field of the item. There is no merge;
// omitted fields are overwritten with their input values.
func (s *Service) UpdateItem(ctx context.Context, ownerID, characterID, itemID ulid.ULID, input ItemInput) (*Item, error) {
	var item *Item
	err := s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		var getErr error
		item, getErr = s.items.GetOwned(txCtx, itemID, characterID, ownerID)
		if getErr != nil {
			return getErr
		}

		if strings.TrimSpace(input.Name) == "" {
			return oops.Code("ITEM_INVALID").Errorf("item name cannot be empty")
		}

		item.Name = strings.TrimSpace(input.Name)
		item.Description = input.Description
		item.Type = input.Type
		item.UpdatedAt = time.Now()

		if updateErr := s.items.Update(txCtx, item); updateErr != nil {
			return oops.Code("ITEM_UPDATE_FAILED").
				With("operation", "update item").
				Wrap(updateErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item from the owner's character.
func (s *Service) DeleteItem(ctx context.Context, ownerID, characterID, itemID ulid.ULID) error {
	return s.tx.InTransaction(ctx, func(txCtx context.Context) error {
		item, getErr := s.items.GetOwned(txCtx, itemID, characterID, ownerID)
		if getErr != nil {
			return getErr
		}

		if deleteErr := s.items.Delete(txCtx, item.ID); deleteErr != nil {
			return oops.Code("ITEM_DELETE_FAILED").
				With("operation", "delete item").
				Wrap(deleteErr)
		}
		return nil
	})
}
