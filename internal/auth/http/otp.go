package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/epargne/authd/internal/auth/service"
	"github.com/epargne/authd/pkg/httpx"
	"github.com/epargne/authd/pkg/slogx"
)

type SendOTPHandler struct {
	AuthService *service.AuthService
	Logger      *slog.Logger
}

type VerifyOTPHandler struct {
	AuthService *service.AuthService
	Logger      *slog.Logger
}

type VerifyPhoneHandler struct {
	AuthService *service.AuthService
	Logger      *slog.Logger
}

type PhoneRequest struct {
	Phone string `json:"phone"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type VerifyPhoneResponse struct {
	Exists bool `json:"exists"`
}

// ServeHTTP sends a fresh one-time code to an existing account.
//
//	@Summary		Send a one-time code
//	@Description	Issues a fresh 6-digit code, replacing any outstanding one,
//	@Description	and texts it to the account's phone. Codes expire after one minute.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PhoneRequest	true	"Target phone"
//	@Success		200		{object}	MessageResponse		"Code sent"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed request"
//	@Failure		404		{object}	httpx.ErrorResponse	"No such account"
//	@Router			/v1/auth/send-otp [post].
func (h *SendOTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req PhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "phone is required")
		return
	}

	if err := h.AuthService.SendOTP(ctx, req.Phone); err != nil {
		log.Warn("send otp refused", "phone", req.Phone, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "verification code sent"})
}

// ServeHTTP confirms a one-time code and activates the account.
//
//	@Summary		Verify a one-time code
//	@Description	Checks the submitted code against the outstanding challenge.
//	@Description	A match activates the account and consumes the code; a
//	@Description	mismatch leaves the code in place for another try.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		VerifyOTPRequest	true	"Phone and code"
//	@Success		200		{object}	MessageResponse		"Account verified"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	httpx.ErrorResponse	"Code invalid or expired"
//	@Failure		404		{object}	httpx.ErrorResponse	"No such account"
//	@Router			/v1/auth/verify-otp [post].
func (h *VerifyOTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "phone and code are required")
		return
	}

	if err := h.AuthService.VerifyOTP(ctx, req.Phone, req.Code); err != nil {
		log.Warn("otp verification refused", "phone", req.Phone, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "phone verified"})
}

// ServeHTTP reports whether an account exists for a phone number.
//
//	@Summary		Check a phone number
//	@Description	Reports whether an account is registered for the phone.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PhoneRequest	true	"Phone to check"
//	@Success		200		{object}	VerifyPhoneResponse	"Existence flag"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed request"
//	@Router			/v1/auth/verify-phone [post].
func (h *VerifyPhoneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req PhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "phone is required")
		return
	}

	exists, err := h.AuthService.CheckPhone(ctx, req.Phone)
	if err != nil {
		log.Error("phone check failed", "phone", req.Phone, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, VerifyPhoneResponse{Exists: exists})
}
