// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package web_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpgvault/rpgvault/internal/game"
)

func TestHandleCreateCharacter(t *testing.T) {
	t.Run("creates character", func(t *testing.T) {
		authSvc := new(mockAuthService)
		user := testUser(authSvc, "tok")
		gameSvc := new(mockGameService)
		char := &game.Character{ID: ulid.Make(), OwnerID: user.ID, Name: "Aragorn", Class: "Guerreiro", Level: 10}
		gameSvc.On("CreateCharacter", mock.Anything, user.ID, game.CharacterInput{
			Name: "Aragorn", Class: "Guerreiro", Level: 10,
		}).Return(char, nil)
		router := newTestRouter(authSvc, gameSvc)

		rec := doJSON(t, router, http.MethodPost, "/characters", "tok", map[string]any{
			"name": "Aragorn", "class": "Guerreiro", "level": 10,
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, char.ID.String(), body["id"])
		assert.Equal(t, "Aragorn", body["name"])
		assert.EqualValues(t, 10, body["level"])
	})

	t.Run("name already used by the caller", func(t *testing.T) {
		authSvc := new(mockAuthService)
		user := testUser(authSvc, "tok")
		gameSvc := new(mockGameService)
		gameSvc.On("CreateCharacter", mock.Anything, user.ID, mock.AnythingOfType("game.CharacterInput")).
			Return(nil, oops.Code("CHARACTER_NAME_TAKEN").Errorf("character name already used"))
		router := newTestRouter(authSvc, gameSvc)

		rec := doJSON(t, router, http.MethodPost, "/characters", "tok", map[string]any{
			"name": "Aragorn", "class": "Guerreiro",
		})

		require.Equal(t, http.StatusConflict, rec.Code)
		code, _ := decodeErrorBody(t, rec)
		assert.Equal(t, "CHARACTER_NAME_TAKEN", code)
	})

	t.Run("invalid fields", func(t *testing.T) {
		authSvc := new(mockAuthService)
		user := testUser(authSvc, "tok")
		gameSvc := new(mockGameService)
		gameSvc.On("CreateCharacter", mock.Anything, user.ID, mock.AnythingOfType("game.CharacterInput")).
			Return(nil, oops.Code("CHARACTER_INVALID").Errorf("character name is required"))
		router := newTestRouter(authSvc, gameSvc)

		rec := doJSON(t, router, http.MethodPost, "/characters", "tok", map[string]any{
			"name": "", "class": "Guerreiro",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		code, _ := decodeErrorBody(t, rec)
		assert.Equal(t, "CHARACTER_INVALID", code)
	})
}

func TestHandleListCharacters(t *testing.T) {
	t.Run("empty roster serializes as an empty array", func(t *testing.T) {
		authSvc := new(mockAuthService)
		user := testUser(authSvc, "tok")
		gameSvc := new(mockGameService)
		gameSvc.On("ListCharacters", mock.Anything, user.ID).Return([]*game.Character{}, nil)
		router := newTestRouter(authSvc, gameSvc)

		rec := doJSON(t, router, http.MethodGet, "/characters", "tok", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})

	t.Run("lists the caller's characters", func(t *testing.T) {
		authSvc := new(mockAuthService)
		user := testUser(authSvc, "tok")
		gameSvc := new(mockGameService)
		gameSvc.On("ListCharacters", mock.Anything, user.ID).Return([]*game.Character{
			{ID: ulid.Make(), OwnerID: user.ID, Name: "Aragorn", Class: "Guerreiro", Level: 10},
			{ID: ulid.Make(), OwnerID: user.ID, Name: "Halbarad", Class: "Patrulheiro", Level: 7},
		}, nil)
		router := newTestRouter(authSvc, gameSvc)

		rec := doJSON(t, router, http.MethodGet, "/characters", "tok", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body []map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Len(t, body, 2)
		assert.Equal(t, "Aragorn", body[0]["name"])
		assert.Equal(t, "Halbarad", body[1]["name"])
	})
}

func TestHandleGetCharacter(t *testing.T) {
	t.Run("returns owned character", func(t *testing.T) {
		authSvc := new(mockAuthService)
		user := testUser(authSvc, "tok")
		gameSvc := new(mockGameService)
		char := &game.Character{ID: ulid.Make(), OwnerID: user.ID, Name: "Aragorn", Class: "Guerreiro", Level: 10}
		gameSvc.On("GetCharacter", mock.Anything, user.ID, char.ID).Return(char, nil)
		router := newTestRouter(authSvc, gameSvc)

		rec := doJSON(t, router, http.MethodGet, "/characters/"+char.ID.String(), "tok", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Aragorn")
	})

	t.Run("unparseable id reads as missing without touching storage", func(t *testing.T) {
		authSvc := new(mockAuthService)
		testUser(authSvc, "tok")
		gameSvc := new(mockGameService)
		router := newTestRouter(authSvc, gameSvc)

		rec := doJSON(t, router, http.MethodGet, "/characters/not-a-ulid", "tok", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		code, _ := decodeErrorBody(t, rec)
		assert.Equal(t, "CHARACTER_NOT_FOUND", code)
		gameSvc.AssertNotCalled(t, "GetCharacter", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("character owned by someone else reads as missing", func(t *testing.T) {
		authSvc := new(mockAuthService)
		user := testUser(authSvc, "tok")
		gameSvc := new(mockGameService)
		foreignID := ulid.Make()
		gameSvc.On("GetCharacter", mock.Anything, user.ID, foreignID).
			Return(nil, oops.Code("CHARACTER_NOT_FOUND").Wrap(game.ErrNotFound))
		router := newTestRouter(authSvc, gameSvc)

		rec := doJSON(t, router, http.MethodGet, "/characters/"+foreignID.String(), "tok", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		code, _ := decodeErrorBody(t, rec)
		assert.Equal(t, "CHARACTER_NOT_FOUND", code)
	})
}

func TestHandleUpdateCharacter(t *testing.T) {
	authSvc := new(mockAuthService)
	user := testUser(authSvc, "tok")
	gameSvc := new(mockGameService)
	charID := ulid.Make()
	updated := &game.Character{ID: charID, OwnerID: user.ID, Name: "Elessar", Class: "Rei", Level: 20}
	gameSvc.On("UpdateCharacter", mock.Anything, user.ID, charID, game.CharacterInput{
		Name: "Elessar", Class: "Rei", Level: 20,
	}).Return(updated, nil)
	router := newTestRouter(authSvc, gameSvc)

	rec := doJSON(t, router, http.MethodPut, "/characters/"+charID.String(), "tok", map[string]any{
		"name": "Elessar", "class": "Rei", "level": 20,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Elessar", body["name"])
	assert.Equal(t, "Rei", body["class"])
}

func TestHandleDeleteCharacter(t *testing.T) {
	t.Run("acknowledges deletion", func(t *testing.T) {
		authSvc := new(mockAuthService)
		user := testUser(authSvc, "tok")
		gameSvc := new(mockGameService)
		charID := ulid.Make()
		gameSvc.On("DeleteCharacter", mock.Anything, user.ID, charID).Return(nil)
		router := newTestRouter(authSvc, gameSvc)

		rec := doJSON(t, router, http.MethodDelete, "/characters/"+charID.String(), "tok", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, true, body["deleted"])
		assert.Equal(t, charID.String(), body["id"])
	})

	t.Run("foreign character reads as missing", func(t *testing.T) {
		authSvc := new(mockAuthService)
		user := testUser(authSvc, "tok")
		gameSvc := new(mockGameService)
		foreignID := ulid.Make()
		gameSvc.On("DeleteCharacter", mock.Anything, user.ID, foreignID).
			Return(oops.Code("CHARACTER_NOT_FOUND").Wrap(game.ErrNotFound))
		router := newTestRouter(authSvc, gameSvc)

		rec := doJSON(t, router, http.MethodDelete, "/characters/"+foreignID.String(), "tok", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
