package service

import "errors"

var (
	// ErrUserNotFound indicates no account exists for the given phone or id.
	ErrUserNotFound = errors.New("user_not_found")

	// ErrPhoneTaken indicates an account already exists for the phone.
	ErrPhoneTaken = errors.New("phone_already_registered")

	// ErrInvalidCredentials indicates the password did not match.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrAccountBlocked indicates the account is blocked, either by the
	// lockout tracker or because the phone was never verified.
	ErrAccountBlocked = errors.New("account_blocked")

	// ErrAccountNowBlocked indicates this very attempt tripped the lockout
	// threshold. Distinct from ErrAccountBlocked so callers can tell the
	// user what just happened.
	ErrAccountNowBlocked = errors.New("account_now_blocked")

	// ErrNotVerified indicates the operation requires a verified account.
	ErrNotVerified = errors.New("account_not_verified")

	// ErrOTPInvalid indicates the submitted code is wrong, expired, or was
	// never issued.
	ErrOTPInvalid = errors.New("otp_invalid_or_expired")
)
