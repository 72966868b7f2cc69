// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package web

import (
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/rpgvault/rpgvault/internal/auth"
	"github.com/rpgvault/rpgvault/internal/game"
)

type itemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type itemResponse struct {
	ID          string `json:"id"`
	CharacterID string `json:"character_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

func toItemResponse(item *game.Item) itemResponse {
	return itemResponse{
		ID:          item.ID.String(),
		CharacterID: item.CharacterID.String(),
		Name:        item.Name,
		Description: item.Description,
		Type:        item.Type,
	}
}

// inventoryIDs parses the character and item IDs from the URL.
func inventoryIDs(r *http.Request) (charID, itemID ulid.ULID, err error) {
	charID, err = pathID(r, "characterID", "CHARACTER_NOT_FOUND")
	if err != nil {
		return
	}
	itemID, err = pathID(r, "itemID", "ITEM_NOT_FOUND")
	return
}

// handleAddItem adds an item to one of the caller's characters.
func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
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

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	item, err := h.game.AddItem(r.Context(), user.ID, charID, game.ItemInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toItemResponse(item))
}

// handleListItems returns the inventory of one of the caller's characters.
func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.game.ListItems(r.Context(), user.ID, charID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleGetItem returns one item from the caller's character.
func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, auth.ErrInvalidCredentials)
		return
	}

	charID, itemID, err := inventoryIDs(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	item, err := h.game.GetItem(r.Context(), user.ID, charID, itemID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toItemResponse(item))
}

// handleUpdateItem replaces every field of an item.
func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, auth.ErrInvalidCredentials)
		return
	}

	charID, itemID, err := inventoryIDs(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	item, err := h.game.UpdateItem(r.Context(), user.ID, charID, itemID, game.ItemInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toItemResponse(item))
}

// handleDeleteItem removes an item from the caller's character.
func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, auth.ErrInvalidCredentials)
		return
	}

	charID, itemID, err := inventoryIDs(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.game.DeleteItem(r.Context(), user.ID, charID, itemID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, deletedResponse{Deleted: true, ID: itemID.String()})
}
