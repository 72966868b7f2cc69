// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

// Package postgres provides PostgreSQL implementations of the game
// repositories. Ownership filtering happens in the queries themselves,
// so unowned records never leave the database layer.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/rpgvault/rpgvault/internal/auth"
	"github.com/rpgvault/rpgvault/internal/game"
	"github.com/rpgvault/rpgvault/internal/store"
)

// CharacterRepository implements game.CharacterRepository using PostgreSQL.
type CharacterRepository struct {
	db store.DB
}

// NewCharacterRepository creates a new CharacterRepository.
func NewCharacterRepository(db store.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create stores a new character.
func (r *CharacterRepository) Create(ctx context.Context, char *game.Character) error {
	db := store.FromContext(ctx, r.db)

	_, err := db.Exec(ctx, `
		INSERT INTO characters (
			id, owner_id, name, class, level, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		char.ID.String(),
		char.OwnerID.String(),
		char.Name,
		char.Class,
		char.Level,
		char.CreatedAt,
		char.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("CHARACTER_DUPLICATE").
				With("name", char.Name).
				Wrap(auth.ErrDuplicate)
		}
		return oops.Code("CHARACTER_CREATE_FAILED").
			With("operation", "insert character").
			With("name", char.Name).
			Wrap(err)
	}
	return nil
}

// GetOwned retrieves a character by ID if it belongs to ownerID. A
// character owned by someone else scans as no rows at all.
func (r *CharacterRepository) GetOwned(ctx context.Context, id, ownerID ulid.ULID) (*game.Character, error) {
	db := store.FromContext(ctx, r.db)

	row := db.QueryRow(ctx, `
		SELECT id, owner_id, name, class, level, created_at, updated_at
		FROM characters
		WHERE id = $1 AND owner_id = $2
	`, id.String(), ownerID.String())

	char, err := scanCharacter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CHARACTER_NOT_FOUND").
			With("id", id.String()).
			Wrap(game.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CHARACTER_GET_FAILED").
			With("operation", "get character").
			With("id", id.String()).
			Wrap(err)
	}
	return char, nil
}

// ListByOwner returns every character owned by ownerID.
func (r *CharacterRepository) ListByOwner(ctx context.Context, ownerID ulid.ULID) ([]*game.Character, error) {
	db := store.FromContext(ctx, r.db)

	rows, err := db.Query(ctx, `
		SELECT id, owner_id, name, class, level, created_at, updated_at
		FROM characters
		WHERE owner_id = $1
		ORDER BY created_at
	`, ownerID.String())
	if err != nil {
		return nil, oops.Code("CHARACTER_LIST_FAILED").
			With("operation", "list characters").
			With("owner_id", ownerID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var chars []*game.Character
	for rows.Next() {
		char, scanErr := scanCharacter(rows)
		if scanErr != nil {
			return nil, oops.Code("CHARACTER_LIST_FAILED").
				With("operation", "scan character").
				Wrap(scanErr)
		}
		chars = append(chars, char)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CHARACTER_LIST_FAILED").
			With("operation", "iterate characters").
			Wrap(err)
	}
	return chars, nil
}

// ExistsByName reports whether ownerID has another character with the
// name (case-insensitive).
func (r *CharacterRepository) ExistsByName(ctx context.Context, ownerID ulid.ULID, name string, except ulid.ULID) (bool, error) {
	db := store.FromContext(ctx, r.db)

	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM characters
			WHERE owner_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3
		)
	`, ownerID.String(), name, except.String()).Scan(&exists)
	if err != nil {
		return false, oops.Code("CHARACTER_EXISTS_FAILED").
			With("operation", "check name exists").
			With("name", name).
			Wrap(err)
	}
	return exists, nil
}

// Update updates an existing character.
func (r *CharacterRepository) Update(ctx context.Context, char *game.Character) error {
	db := store.FromContext(ctx, r.db)

	result, err := db.Exec(ctx, `
		UPDATE characters SET
			name = $2,
			class = $3,
			level = $4,
			updated_at = $5
		WHERE id = $1
	`,
		char.ID.String(),
		char.Name,
		char.Class,
		char.Level,
		char.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("CHARACTER_DUPLICATE").
				With("name", char.Name).
				Wrap(auth.ErrDuplicate)
		}
		return oops.Code("CHARACTER_UPDATE_FAILED").
			With("operation", "update character").
			With("id", char.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CHARACTER_NOT_FOUND").
			With("id", char.ID.String()).
			Wrap(game.ErrNotFound)
	}
	return nil
}

// Delete removes a character if it belongs to ownerID. Items cascade.
func (r *CharacterRepository) Delete(ctx context.Context, id, ownerID ulid.ULID) error {
	db := store.FromContext(ctx, r.db)

	result, err := db.Exec(ctx, `
		DELETE FROM characters WHERE id = $1 AND owner_id = $2
	`, id.String(), ownerID.String())
	if err != nil {
		return oops.Code("CHARACTER_DELETE_FAILED").
			With("operation", "delete character").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CHARACTER_NOT_FOUND").
			With("id", id.String()).
			Wrap(game.ErrNotFound)
	}
	return nil
}

// scanCharacter scans a single row into a Character.
// Callers are responsible for handling pgx.ErrNoRows.
func scanCharacter(row pgx.Row) (*game.Character, error) {
	var (
		idStr      string
		ownerIDStr string
		name       string
		class      string
		level      int
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(&idStr, &ownerIDStr, &name, &class, &level, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("CHARACTER_SCAN_FAILED").
			With("operation", "scan character").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CHARACTER_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	ownerID, err := ulid.Parse(ownerIDStr)
	if err != nil {
		return nil, oops.Code("CHARACTER_INVALID_ID").
			With("owner_id", ownerIDStr).
			Wrap(err)
	}

	return &game.Character{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Class:     class,
		Level:     level,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Compile-time interface check.
var _ game.CharacterRepository = (*CharacterRepository)(nil)
