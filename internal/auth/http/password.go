package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/epargne/authd/internal/auth/service"
	"github.com/epargne/authd/pkg/httpx"
	"github.com/epargne/authd/pkg/slogx"
)

type ForgotPasswordHandler struct {
	AuthService *service.AuthService
	Logger      *slog.Logger
}

type ResetPasswordHandler struct {
	AuthService *service.AuthService
	Logger      *slog.Logger
}

type UpdatePasswordHandler struct {
	UserService *service.UserService
	Logger      *slog.Logger
}

type ResetPasswordRequest struct {
	Phone       string `json:"phone"`
	NewPassword string `json:"new_password"`
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ServeHTTP starts the forgot-password flow.
//
//	@Summary		Request a password reset code
//	@Description	Texts a one-time code to the account's phone so the holder
//	@Description	can reset their password.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PhoneRequest	true	"Account phone"
//	@Success		200		{object}	MessageResponse		"Code sent"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed request"
//	@Failure		404		{object}	httpx.ErrorResponse	"No such account"
//	@Router			/v1/auth/forgot-password [post].
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req PhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "phone is required")
		return
	}

	if err := h.AuthService.RequestPasswordResetOTP(ctx, req.Phone); err != nil {
		log.Warn("password reset request refused", "phone", req.Phone, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "password reset code sent"})
}

// ServeHTTP completes the forgot-password flow.
//
//	@Summary		Reset a forgotten password
//	@Description	Replaces the account's password. The new password takes
//	@Description	effect immediately.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ResetPasswordRequest	true	"Phone and new password"
//	@Success		200		{object}	MessageResponse		"Password replaced"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed request"
//	@Failure		404		{object}	httpx.ErrorResponse	"No such account"
//	@Router			/v1/auth/reset-password [post].
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "phone and new_password are required")
		return
	}

	if err := h.AuthService.ResetPassword(ctx, req.Phone, req.NewPassword); err != nil {
		log.Warn("password reset refused", "phone", req.Phone, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "password reset"})
}

// ServeHTTP changes the authenticated user's password.
//
//	@Summary		Update password
//	@Description	Changes the password for the authenticated account. The
//	@Description	account must be verified.
//	@Tags			User
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdatePasswordRequest	true	"New password"
//	@Success		200		{object}	MessageResponse		"Password updated"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	httpx.ErrorResponse	"Missing token"
//	@Failure		403		{object}	httpx.ErrorResponse	"Account not verified"
//	@Router			/v1/user/update-password [put].
func (h *UpdatePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	phone := httpx.PhoneFromContext(ctx)
	if phone == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing authenticated phone")
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "new_password is required")
		return
	}

	if err := h.UserService.UpdatePassword(ctx, phone, req.NewPassword); err != nil {
		log.Warn("password update refused", "phone", phone, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "password updated"})
}
