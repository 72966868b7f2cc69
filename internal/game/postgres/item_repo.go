// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/rpgvault/rpgvault/internal/game"
	"github.com/rpgvault/rpgvault/internal/store"
)

// ItemRepository implements game.ItemRepository using PostgreSQL.
type ItemRepository struct {
	db store.DB
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db store.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create stores a new item.
func (r *ItemRepository) Create(ctx context.Context, item *game.Item) error {
	db := store.FromContext(ctx, r.db)

	_, err := db.Exec(ctx, `
		INSERT INTO items (
			id, character_id, name, description, item_type, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		item.ID.String(),
		item.CharacterID.String(),
		item.Name,
		item.Description,
		item.Type,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return oops.Code("ITEM_CREATE_FAILED").
			With("operation", "insert item").
			With("name", item.Name).
			Wrap(err)
	}
	return nil
}

// GetOwned retrieves an item by ID, joined through its character to
// verify ownership in one query. A mismatch on either the character
// or the owner scans as no rows.
func (r *ItemRepository) GetOwned(ctx context.Context, id, characterID, ownerID ulid.ULID) (*game.Item, error) {
	db := store.FromContext(ctx, r.db)

	row := db.QueryRow(ctx, `
		SELECT i.id, i.character_id, i.name, i.description, i.item_type, i.created_at, i.updated_at
		FROM items i
		JOIN characters c ON c.id = i.character_id
		WHERE i.id = $1 AND i.character_id = $2 AND c.owner_id = $3
	`, id.String(), characterID.String(), ownerID.String())

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ITEM_NOT_FOUND").
			With("id", id.String()).
			Wrap(game.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ITEM_GET_FAILED").
			With("operation", "get item").
			With("id", id.String()).
			Wrap(err)
	}
	return item, nil
}

// ListByCharacter returns every item carried by characterID.
func (r *ItemRepository) ListByCharacter(ctx context.Context, characterID ulid.ULID) ([]*game.Item, error) {
	db := store.FromContext(ctx, r.db)

	rows, err := db.Query(ctx, `
		SELECT id, character_id, name, description, item_type, created_at, updated_at
		FROM items
		WHERE character_id = $1
		ORDER BY created_at
	`, characterID.String())
	if err != nil {
		return nil, oops.Code("ITEM_LIST_FAILED").
			With("operation", "list items").
			With("character_id", characterID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var items []*game.Item
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, oops.Code("ITEM_LIST_FAILED").
				With("operation", "scan item").
				Wrap(scanErr)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ITEM_LIST_FAILED").
			With("operation", "iterate items").
			Wrap(err)
	}
	return items, nil
}

// Update updates an existing item.
func (r *ItemRepository) Update(ctx context.Context, item *game.Item) error {
	db := store.FromContext(ctx, r.db)

	result, err := db.Exec(ctx, `
		UPDATE items SET
			name = $2,
			description = $3,
			item_type = $4,
			updated_at = $5
		WHERE id = $1
	`,
		item.ID.String(),
		item.Name,
		item.Description,
		item.Type,
		item.UpdatedAt,
	)
	if err != nil {
		return oops.Code("ITEM_UPDATE_FAILED").
			With("operation", "update item").
			With("id", item.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ITEM_NOT_FOUND").
			With("id", item.ID.String()).
			Wrap(game.ErrNotFound)
	}
	return nil
}

// Delete removes an item.
func (r *ItemRepository) Delete(ctx context.Context, id ulid.ULID) error {
	db := store.FromContext(ctx, r.db)

	result, err := db.Exec(ctx, `
		DELETE FROM items WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("ITEM_DELETE_FAILED").
			With("operation", "delete item").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ITEM_NOT_FOUND").
			With("id", id.String()).
			Wrap(game.ErrNotFound)
	}
	return nil
}

// scanItem scans a single row into an Item.
// Callers are responsible for handling pgx.ErrNoRows.
func scanItem(row pgx.Row) (*game.Item, error) {
	var (
		idStr       string
		charIDStr   string
		name        string
		description string
		itemType    string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&idStr, &charIDStr, &name, &description, &itemType, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("ITEM_SCAN_FAILED").
			With("operation", "scan item").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ITEM_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	charID, err := ulid.Parse(charIDStr)
	if err != nil {
		return nil, oops.Code("ITEM_INVALID_ID").
			With("character_id", charIDStr).
			Wrap(err)
	}

	return &game.Item{
		ID:          id,
		CharacterID: charID,
		Name:        name,
		Description: description,
		Type:        itemType,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// isUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Compile-time interface check.
var _ game.ItemRepository = (*ItemRepository)(nil)
