// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/rpgvault/rpgvault/internal/auth"
)

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	NewPassword     string `json:"new_password,omitempty"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func toUserResponse(user *auth.User) userResponse {
	return userResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}
}

// handleRegister creates a new account.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

// decodeLogin accepts credentials as JSON or as a classic
// password-grant form body.
func decodeLogin(r *http.Request) (loginRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return loginRequest{}, oops.Code("BAD_REQUEST").Errorf("invalid request body")
		}
		return loginRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	}

	var req loginRequest
	err := decodeJSON(r, &req)
	return req, err
}

// handleLogin verifies credentials and issues a bearer token.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	token, expiresAt, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.AuthFailures.Inc()
		}
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// handleGetProfile returns the authenticated user's own profile.
func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, auth.ErrInvalidCredentials)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// handleUpdateProfile replaces the authenticated user's username and
// email, and optionally the password.
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, auth.ErrInvalidCredentials)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	updated, err := h.auth.UpdateProfile(r.Context(), user.ID, auth.UpdateProfileInput{
		Username:        req.Username,
		Email:           req.Email,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(updated))
}
