package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/internal/auth/store"
	"github.com/epargne/authd/pkg/cryptox"
	"github.com/epargne/authd/pkg/idx"
	"github.com/epargne/authd/pkg/smsx"
)

// AuthService implements phone and password authentication: registration
// with OTP verification, login with lockout protection, and the password
// reset flows.
type AuthService struct {
	Store   store.Store
	Tokens  *TokenService
	Lockout *LockoutService
	OTP     *OTPService
	SMS     smsx.Sender
	Logger  *slog.Logger
}

// Login checks the phone and password and returns a signed token on
// success. Blocked accounts are rejected before the password is even
// looked at. A wrong password counts toward the lockout threshold; the
// attempt that trips it gets ErrAccountNowBlocked instead of
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, phone, password string) (domain.LoginResult, error) {
	phone = domain.NormalizePhone(phone)

	if s.Lockout.IsBlocked(ctx, phone) {
		return domain.LoginResult{}, ErrAccountBlocked
	}

	user, err := s.Store.Users().GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LoginResult{}, ErrUserNotFound
		}
		return domain.LoginResult{}, fmt.Errorf("failed to load user: %w", err)
	}

	// The stored status is authoritative: it covers blocks persisted
	// before a restart as well as accounts that never verified their phone.
	if user.Status == domain.StatusBlocked {
		return domain.LoginResult{}, ErrAccountBlocked
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if s.Lockout.RecordFailure(ctx, phone) {
			return domain.LoginResult{}, ErrAccountNowBlocked
		}
		return domain.LoginResult{}, ErrInvalidCredentials
	}

	s.Lockout.RecordSuccess(ctx, phone)

	// Reassert ACTIVE on every successful login. Idempotent, and keeps
	// the durable status honest if anything upstream left it stale.
	if err := s.Store.Users().UpdateStatus(ctx, phone, domain.StatusActive); err != nil {
		s.Logger.Error("failed to refresh user status", "phone", phone, "error", err)
	}

	token, err := s.Tokens.Issue(phone)
	if err != nil {
		return domain.LoginResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.Logger.Info("user logged in", "phone", phone, "user_id", user.ID)
	return domain.LoginResult{
		Message: "login successful",
		Token:   token,
		UserID:  user.ID,
		Name:    user.Name,
		Phone:   user.Phone,
	}, nil
}

// Register creates a new account in the blocked state and sends a
// verification code to the phone. The account stays blocked until
// VerifyOTP succeeds. SMS delivery failure does not fail registration;
// the user can request a fresh code.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	phone := domain.NormalizePhone(reg.Phone)

	hash, err := cryptox.HashPassword(reg.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New(),
		Name:         reg.Name,
		Surname:      reg.Surname,
		NationalID:   reg.NationalID,
		PasswordHash: hash,
		Phone:        phone,
		Status:       domain.StatusBlocked,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrPhoneTaken
		}
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.Logger.Info("user registered", "phone", phone, "user_id", user.ID)

	if err := s.sendOTP(ctx, phone); err != nil {
		s.Logger.Error("failed to send verification code", "phone", phone, "error", err)
	}

	return user, nil
}

// VerifyOTP checks the code sent at registration and activates the
// account on success.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) error {
	phone = domain.NormalizePhone(phone)

	if _, err := s.Store.Users().GetUserByPhone(ctx, phone); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !s.OTP.Verify(phone, code) {
		return ErrOTPInvalid
	}

	if err := s.Store.Users().UpdateStatus(ctx, phone, domain.StatusActive); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	s.Logger.Info("phone verified", "phone", phone)
	return nil
}

// SendOTP issues a fresh code for an existing account and delivers it by
// SMS. Used both to re-send the registration code and by clients that
// want a standalone challenge.
func (s *AuthService) SendOTP(ctx context.Context, phone string) error {
	phone = domain.NormalizePhone(phone)

	if _, err := s.Store.Users().GetUserByPhone(ctx, phone); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	return s.sendOTP(ctx, phone)
}

// RequestPasswordResetOTP starts the forgot-password flow by sending a
// code to the account's phone.
func (s *AuthService) RequestPasswordResetOTP(ctx context.Context, phone string) error {
	return s.SendOTP(ctx, phone)
}

// ResetPassword replaces the account's password after the forgot-password
// flow. The new password takes effect immediately.
func (s *AuthService) ResetPassword(ctx context.Context, phone, newPassword string) error {
	phone = domain.NormalizePhone(phone)

	user, err := s.Store.Users().GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.Logger.Info("password reset", "phone", phone, "user_id", user.ID)
	return nil
}

// CheckPhone reports whether an account exists for the phone.
func (s *AuthService) CheckPhone(ctx context.Context, phone string) (bool, error) {
	phone = domain.NormalizePhone(phone)

	_, err := s.Store.Users().GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load user: %w", err)
	}
	return true, nil
}

// sendOTP issues a challenge and hands it to the SMS sender. A delivery
// failure is logged but never surfaced: the challenge is already stored,
// so the caller can retry delivery without invalidating it.
func (s *AuthService) sendOTP(ctx context.Context, phone string) error {
	code, err := s.OTP.Issue(phone)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %s.", code, s.OTP.TTL)
	if err := s.SMS.Send(ctx, phone, body); err != nil {
		s.Logger.Error("failed to send sms", "phone", phone, "error", err)
	}
	return nil
}
