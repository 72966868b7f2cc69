// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package web

import (
	"net/http"

	"github.com/rpgvault/rpgvault/internal/auth"
	"github.com/rpgvault/rpgvault/internal/game"
)

type characterRequest struct {
	Name  string `json:"name"`
	Class string `json:"class"`
	Level int    `json:"level,omitempty"`
}

type characterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
	Level int    `json:"level"`
}

type deletedResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

func toCharacterResponse(char *game.Character) characterResponse {
	return characterResponse{
		ID:    char.ID.String(),
		Name:  char.Name,
		Class: char.Class,
		Level: char.Level,
	}
}

// handleCreateCharacter creates a character for the authenticated user.
func (h *Handler) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, auth.ErrInvalidCredentials)
		return
	}

	var req characterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	char, err := h.game.CreateCharacter(r.Context(), user.ID, game.CharacterInput{
		Name:  req.Name,
		Class: req.Class,
		Level: req.Level,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCharacterResponse(char))
}

// handleListCharacters returns every character owned by the caller.
func (h *Handler) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, auth.ErrInvalidCredentials)
		return
	}

	chars, err := h.game.ListCharacters(r.Context(), user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	out := make([]characterResponse, 0, len(chars))
	for _, char := range chars {
		out = append(out, toCharacterResponse(char))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleGetCharacter returns one of the caller's characters.
func (h *Handler) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, auth.ErrInvalidCredentials)
		return
	}

	charID, err := pathID(r, "characterID", "CHARACTER_NOT_FOUND")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	char, err := h.game.GetCharacter(r.Context(), user.ID, charID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toCharacterResponse(char))
}

// handleUpdateCharacter replaces one of the caller's characters.
func (h *Handler) handleUpdateCharacter(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, auth.ErrInvalidCredentials)
		return
	}

	charID, err := pathID(r, "characterID", "CHARACTER_NOT_FOUND")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	var req characterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	char, err := h.game.UpdateCharacter(r.Context(), user.ID, charID, game.CharacterInput{
		Name:  req.Name,
		Class: req.Class,
		Level: req.Level,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toCharacterResponse(char))
}

// handleDeleteCharacter removes one of the caller's characters.
func (h *Handler) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, auth.ErrInvalidCredentials)
		return
	}

	charID, err := pathID(r, "characterID", "CHARACTER_NOT_FOUND")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.game.DeleteCharacter(r.Context(), user.ID, charID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, deletedResponse{Deleted: true, ID: charID.String()})
}
