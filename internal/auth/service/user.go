package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/internal/auth/store"
	"github.com/epargne/authd/pkg/cryptox"
	"github.com/epargne/authd/pkg/idx"
)

// UserService exposes profile operations for authenticated users.
type UserService struct {
	Store  store.Store
	Logger *slog.Logger
}

// GetUserByPhone returns the account for the given phone.
func (s *UserService) GetUserByPhone(ctx context.Context, phone string) (domain.User, error) {
	phone = domain.NormalizePhone(phone)

	user, err := s.Store.Users().GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// GetUserByID returns the account with the given id.
func (s *UserService) GetUserByID(ctx context.Context, id idx.ID) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// GetUserID returns just the account id for the given phone.
func (s *UserService) GetUserID(ctx context.Context, phone string) (idx.ID, error) {
	user, err := s.GetUserByPhone(ctx, phone)
	if err != nil {
		return idx.Zero, err
	}
	return user.ID, nil
}

// UpdatePassword changes the password for a verified account. The route
// is behind bearer authentication, so possession of a valid token stands
// in as the caller's proof; unverified accounts are refused.
func (s *UserService) UpdatePassword(ctx context.Context, phone, newPassword string) error {
	user, err := s.GetUserByPhone(ctx, phone)
	if err != nil {
		return err
	}

	if user.Status != domain.StatusActive {
		return ErrNotVerified
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.Logger.Info("password updated", "phone", user.Phone, "user_id", user.ID)
	return nil
}

// UpdateDetails applies a partial update to the account's profile fields
// and returns the updated account.
func (s *UserService) UpdateDetails(ctx context.Context, id idx.ID, patch domain.DetailsPatch) (domain.User, error) {
	if patch.Phone != nil {
		normalized := domain.NormalizePhone(*patch.Phone)
		patch.Phone = &normalized
	}

	user, err := s.Store.Users().UpdateDetails(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, ErrUserNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.User{}, ErrPhoneTaken
		}
		return domain.User{}, fmt.Errorf("failed to update details: %w", err)
	}

	s.Logger.Info("user details updated", "user_id", id)
	return user, nil
}
