// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rpgvault/rpgvault/internal/auth"
	"github.com/rpgvault/rpgvault/internal/game"
	"github.com/rpgvault/rpgvault/pkg/errutil"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// statusByCode maps domain error codes to HTTP statuses. Codes not
// listed here are treated as internal faults.
var statusByCode = map[string]int{
	"AUTH_INVALID_CREDENTIALS": http.StatusUnauthorized,

	"USER_NOT_FOUND":      http.StatusNotFound,
	"CHARACTER_NOT_FOUND": http.StatusNotFound,
	"ITEM_NOT_FOUND":      http.StatusNotFound,

	"AUTH_USERNAME_TAKEN":  http.StatusConflict,
	"AUTH_EMAIL_TAKEN":     http.StatusConflict,
	"USER_DUPLICATE":       http.StatusConflict,
	"CHARACTER_NAME_TAKEN": http.StatusConflict,
	"CHARACTER_DUPLICATE":  http.StatusConflict,

	"AUTH_INVALID_USERNAME":  http.StatusBadRequest,
	"AUTH_INVALID_EMAIL":     http.StatusBadRequest,
	"AUTH_INVALID_PASSWORD":  http.StatusBadRequest,
	"AUTH_PASSWORD_MISMATCH": http.StatusBadRequest,
	"AUTH_EMPTY_PASSWORD":    http.StatusBadRequest,
	"CHARACTER_INVALID":      http.StatusBadRequest,
	"ITEM_INVALID":           http.StatusBadRequest,
	"BAD_REQUEST":            http.StatusBadRequest,
}

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // response write error means the client is gone
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps err to its HTTP status and writes the error body.
// Internal faults are logged with their full chain but surface only a
// generic message.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := errutil.Code(err)
	status, known := statusByCode[code]
	if !known {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			status = http.StatusUnauthorized
			code = "AUTH_INVALID_CREDENTIALS"
		case errors.Is(err, game.ErrNotFound), errors.Is(err, auth.ErrNotFound):
			status = http.StatusNotFound
			code = "NOT_FOUND"
		default:
			status = http.StatusInternalServerError
		}
	}

	var body errorBody
	if status == http.StatusInternalServerError {
		errutil.LogError(logger, "request failed", err)
		body.Error.Code = "INTERNAL"
		body.Error.Message = "something went wrong, please try again"
	} else {
		body.Error.Code = code
		body.Error.Message = err.Error()
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	respondJSON(w, status, body)
}
