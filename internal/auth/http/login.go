package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/epargne/authd/internal/auth/service"
	"github.com/epargne/authd/pkg/httpx"
	"github.com/epargne/authd/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
	Logger      *slog.Logger
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
}

// ServeHTTP handles login with phone and password.
//
//	@Summary		Log in
//	@Description	Checks the phone and password and returns a signed bearer token.
//	@Description	Three consecutive failures block the account for one minute.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse		"Token and account summary"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	httpx.ErrorResponse	"Wrong phone or password"
//	@Failure		403		{object}	httpx.ErrorResponse	"Account blocked"
//	@Failure		404		{object}	httpx.ErrorResponse	"No such account"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if req.Phone == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "phone and password are required")
		return
	}

	res, err := h.AuthService.Login(ctx, req.Phone, req.Password)
	if err != nil {
		log.Warn("login refused", "phone", req.Phone, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Message: res.Message,
		Token:   res.Token,
		UserID:  res.UserID.String(),
		Name:    res.Name,
		Phone:   res.Phone,
	})
}
