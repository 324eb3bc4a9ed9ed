package http

import (
	"errors"
	"net/http"

	"github.com/epargne/authd/internal/auth/service"
	"github.com/epargne/authd/pkg/httpx"
)

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of each critical dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// MessageResponse is the generic success envelope for operations that
// return no data.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// writeServiceError maps service sentinels to HTTP status codes. Unknown
// errors become an opaque 500 so internals never leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "no account exists for this phone number")
	case errors.Is(err, service.ErrPhoneTaken):
		httpx.WriteError(w, http.StatusConflict, "conflict", "an account already exists for this phone number")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "phone number or password is incorrect")
	case errors.Is(err, service.ErrAccountNowBlocked):
		httpx.WriteError(w, http.StatusForbidden, "account_blocked", "too many failed attempts, account blocked temporarily")
	case errors.Is(err, service.ErrAccountBlocked):
		httpx.WriteError(w, http.StatusForbidden, "account_blocked", "account is blocked")
	case errors.Is(err, service.ErrNotVerified):
		httpx.WriteError(w, http.StatusForbidden, "not_verified", "account has not been verified")
	case errors.Is(err, service.ErrOTPInvalid):
		httpx.WriteError(w, http.StatusUnauthorized, "otp_invalid", "code is invalid or has expired")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal server error")
	}
}
