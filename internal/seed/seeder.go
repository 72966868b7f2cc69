// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package seed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/rpgvault/rpgvault/internal/auth"
	"github.com/rpgvault/rpgvault/internal/game"
)

// AccountService is the registration surface the seeder consumes.
type AccountService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*auth.User, error)
}

// RosterService is the character surface the seeder consumes.
type RosterService interface {
	CreateCharacter(ctx context.Context, ownerID ulid.ULID, input game.CharacterInput) (*game.Character, error)
	AddItem(ctx context.Context, ownerID, characterID ulid.ULID, input game.ItemInput) (*game.Item, error)
}

// UserFinder looks up existing accounts for the idempotence check.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*auth.User, error)
}

// Seeder applies a seed file through the regular services.
type Seeder struct {
	accounts AccountService
	roster   RosterService
	users    UserFinder
	logger   *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(accounts AccountService, roster RosterService, users UserFinder, logger *slog.Logger) *Seeder {
	return &Seeder{
		accounts: accounts,
		roster:   roster,
		users:    users,
		logger:   logger,
	}
}

// Apply registers every user in the file with their characters and
// items. A username that already exists is skipped wholesale, so
// re-running the seed is safe.
func (s *Seeder) Apply(ctx context.Context, file *File) error {
	for _, su := range file.Users {
		if _, err := s.users.GetByUsername(ctx, su.Username); err == nil {
			s.logger.Info("seed user already exists, skipping", "username", su.Username)
			continue
		} else if !errors.Is(err, auth.ErrNotFound) {
			return oops.Code("SEED_APPLY_FAILED").
				With("operation", "check existing user").
				With("username", su.Username).
				Wrap(err)
		}

		user, err := s.accounts.Register(ctx, auth.RegisterInput{
			Username:        su.Username,
			Email:           su.Email,
			Password:        su.Password,
			ConfirmPassword: su.Password,
		})
		if err != nil {
			return oops.Code("SEED_APPLY_FAILED").
				With("operation", "register user").
				With("username", su.Username).
				Wrap(err)
		}
		s.logger.Info("seeded user", "username", user.Username)

		for _, sc := range su.Characters {
			char, err := s.roster.CreateCharacter(ctx, user.ID, game.CharacterInput{
				Name:  sc.Name,
				Class: sc.Class,
				Level: sc.Level,
			})
			if err != nil {
				return oops.Code("SEED_APPLY_FAILED").
					With("operation", "create character").
					With("character", sc.Name).
					Wrap(err)
			}

			for _, si := range sc.Items {
				if _, err := s.roster.AddItem(ctx, user.ID, char.ID, game.ItemInput{
					Name:        si.Name,
					Description: si.Description,
					Type:        si.Type,
				}); err != nil {
					return oops.Code("SEED_APPLY_FAILED").
						With("operation", "add item").
						With("item", si.Name).
						Wrap(err)
				}
			}
			s.logger.Info("seeded character", "character", char.Name, "items", len(sc.Items))
		}
	}
	return nil
}
