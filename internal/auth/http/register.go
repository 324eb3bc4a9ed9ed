package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/internal/auth/service"
	"github.com/epargne/authd/pkg/httpx"
	"github.com/epargne/authd/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
	Logger      *slog.Logger
}

type RegisterRequest struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Phone   string `json:"phone"`
}

// ServeHTTP handles account creation.
//
//	@Summary		Register a new account
//	@Description	Creates the account in a blocked state and texts a 6-digit
//	@Description	verification code to the phone. The account stays blocked
//	@Description	until the code is confirmed via /v1/auth/verify-otp.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Account details"
//	@Success		201		{object}	RegisterResponse	"Account created, code sent"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed request"
//	@Failure		409		{object}	httpx.ErrorResponse	"Phone already registered"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if req.Phone == "" || req.Password == "" || req.Name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name, phone and password are required")
		return
	}

	user, err := h.AuthService.Register(ctx, domain.Registration{
		Name:       req.Name,
		Surname:    req.Surname,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Password:   req.Password,
	})
	if err != nil {
		log.Warn("registration refused", "phone", req.Phone, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Message: "account created, verification code sent",
		UserID:  user.ID.String(),
		Phone:   user.Phone,
	})
}
