package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/internal/auth/service"
	"github.com/epargne/authd/pkg/httpx"
	"github.com/epargne/authd/pkg/idx"
	"github.com/epargne/authd/pkg/slogx"
)

type UserDetailsHandler struct {
	UserService *service.UserService
}

type CurrentIDHandler struct {
	UserService *service.UserService
}

type UpdateDetailsHandler struct {
	UserService *service.UserService
	Logger      *slog.Logger
}

type CurrentIDResponse struct {
	UserID string `json:"user_id"`
}

type UpdateDetailsRequest struct {
	Name       *string `json:"name,omitempty"`
	Surname    *string `json:"surname,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
}

func userResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Surname:    u.Surname,
		NationalID: u.NationalID,
		Phone:      u.Phone,
		Status:     string(u.Status),
		CreatedAt:  u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ServeHTTP returns the authenticated user's profile.
//
//	@Summary		Get account details
//	@Description	Returns the profile of the account the token was issued to.
//	@Tags			User
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse		"Account profile"
//	@Failure		401	{object}	httpx.ErrorResponse	"Invalid or missing token"
//	@Failure		404	{object}	httpx.ErrorResponse	"Account no longer exists"
//	@Router			/v1/user/details [get].
func (h *UserDetailsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	phone := httpx.PhoneFromContext(ctx)
	if phone == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing authenticated phone")
		return
	}

	user, err := h.UserService.GetUserByPhone(ctx, phone)
	if err != nil {
		log.Warn("failed to load user", "phone", phone, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

// ServeHTTP returns just the authenticated user's account id.
//
//	@Summary		Get current account id
//	@Tags			User
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	CurrentIDResponse	"Account id"
//	@Failure		401	{object}	httpx.ErrorResponse	"Invalid or missing token"
//	@Failure		404	{object}	httpx.ErrorResponse	"Account no longer exists"
//	@Router			/v1/user/current-id [get].
func (h *CurrentIDHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	phone := httpx.PhoneFromContext(ctx)
	if phone == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing authenticated phone")
		return
	}

	id, err := h.UserService.GetUserID(ctx, phone)
	if err != nil {
		log.Warn("failed to load user id", "phone", phone, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, CurrentIDResponse{UserID: id.String()})
}

// ServeHTTP applies a partial update to an account's profile.
//
//	@Summary		Update account details
//	@Description	Applies a partial update to the account's profile fields.
//	@Description	Only fields present in the body are changed.
//	@Tags			User
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Account id"
//	@Param			request	body		UpdateDetailsRequest	true	"Fields to change"
//	@Success		200		{object}	UserResponse		"Updated profile"
//	@Failure		400		{object}	httpx.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid or missing token"
//	@Failure		403		{object}	httpx.ErrorResponse	"Token does not own this account"
//	@Failure		404		{object}	httpx.ErrorResponse	"No such account"
//	@Failure		409		{object}	httpx.ErrorResponse	"Phone already registered"
//	@Router			/v1/user/update/{id} [put].
func (h *UpdateDetailsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	phone := httpx.PhoneFromContext(ctx)
	if phone == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing authenticated phone")
		return
	}

	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed account id")
		return
	}

	// A token only grants access to its own account.
	owner, err := h.UserService.GetUserByPhone(ctx, phone)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if owner.ID != id {
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "token does not own this account")
		return
	}

	var req UpdateDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	user, err := h.UserService.UpdateDetails(ctx, id, domain.DetailsPatch{
		Name:       req.Name,
		Surname:    req.Surname,
		Phone:      req.Phone,
		NationalID: req.NationalID,
	})
	if err != nil {
		log.Warn("details update refused", "user_id", id, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}
