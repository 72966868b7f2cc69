// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/rpgvault/rpgvault/internal/auth"
	"github.com/rpgvault/rpgvault/internal/game"
	"github.com/rpgvault/rpgvault/internal/observability"
)

// AuthService is the authentication surface the handlers consume.
type AuthService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*auth.User, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error)
	Authenticate(ctx context.Context, token string) (*auth.User, error)
	UpdateProfile(ctx context.Context, userID ulid.ULID, input auth.UpdateProfileInput) (*auth.User, error)
}

// GameService is the character and inventory surface the handlers consume.
type GameService interface {
	CreateCharacter(ctx context.Context, ownerID ulid.ULID, input game.CharacterInput) (*game.Character, error)
	GetCharacter(ctx context.Context, ownerID, characterID ulid.ULID) (*game.Character, error)
	ListCharacters(ctx context.Context, ownerID ulid.ULID) ([]*game.Character, error)
	UpdateCharacter(ctx context.Context, ownerID, characterID ulid.ULID, input game.CharacterInput) (*game.Character, error)
	DeleteCharacter(ctx context.Context, ownerID, characterID ulid.ULID) error
	AddItem(ctx context.Context, ownerID, characterID ulid.ULID, input game.ItemInput) (*game.Item, error)
	GetItem(ctx context.Context, ownerID, characterID, itemID ulid.ULID) (*game.Item, error)
	ListItems(ctx context.Context, ownerID, characterID ulid.ULID) ([]*game.Item, error)
	UpdateItem(ctx context.Context, ownerID, characterID, itemID ulid.ULID, input game.ItemInput) (*game.Item, error)
	DeleteItem(ctx context.Context, ownerID, characterID, itemID ulid.ULID) error
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	auth    AuthService
	game    GameService
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewHandler creates a Handler.
func NewHandler(authSvc AuthService, gameSvc GameService, logger *slog.Logger, metrics *observability.Metrics) *Handler {
	return &Handler{
		auth:    authSvc,
		game:    gameSvc,
		logger:  logger,
		metrics: metrics,
	}
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return oops.Code("BAD_REQUEST").Errorf("invalid request body")
	}
	return nil
}

// pathID parses a ULID URL parameter. An unparseable value behaves
// like an ID that matches nothing.
func pathID(r *http.Request, param, notFoundCode string) (ulid.ULID, error) {
	id, err := ulid.Parse(chi.URLParam(r, param))
	if err != nil {
		return ulid.ULID{}, oops.Code(notFoundCode).Wrap(game.ErrNotFound)
	}
	return id, nil
}
