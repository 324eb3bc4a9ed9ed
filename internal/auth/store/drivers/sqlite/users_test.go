package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/internal/auth/store"
	"github.com/epargne/authd/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store, phone string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New(),
		Name:         "Awa",
		Surname:      "Diop",
		NationalID:   "CI-" + phone,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Phone:        phone,
		Status:       domain.StatusBlocked,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersCreateAndGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "+2250701020304")

	t.Run("by phone", func(t *testing.T) {
		got, err := s.Users().GetUserByPhone(ctx, u.Phone)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, domain.StatusBlocked, got.Status)
	})

	t.Run("by id", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Phone, got.Phone)
	})

	t.Run("missing phone", func(t *testing.T) {
		_, err := s.Users().GetUserByPhone(ctx, "+2250000000000")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersCreateDuplicatePhone(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "+2250701020305")

	dup := u
	dup.ID = idx.New()
	dup.NationalID = "CI-other"
	err := s.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersUpdateStatus(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "+2250701020306")

	require.NoError(t, s.Users().UpdateStatus(ctx, u.Phone, domain.StatusActive))

	got, err := s.Users().GetUserByPhone(ctx, u.Phone)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, got.Status)

	err = s.Users().UpdateStatus(ctx, "+2250000000000", domain.StatusActive)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersUpdatePasswordHash(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "+2250701020307")

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)

	err = s.Users().UpdatePasswordHash(ctx, idx.New(), "x")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersUpdateDetails(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "+2250701020308")

	name := "Fatou"
	phone := "+2250701020399"
	got, err := s.Users().UpdateDetails(ctx, u.ID, domain.DetailsPatch{
		Name:  &name,
		Phone: &phone,
	})
	require.NoError(t, err)
	require.Equal(t, "Fatou", got.Name)
	require.Equal(t, "+2250701020399", got.Phone)
	require.Equal(t, u.Surname, got.Surname)

	_, err = s.Users().UpdateDetails(ctx, idx.New(), domain.DetailsPatch{Name: &name})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersUpdateDetailsPhoneConflict(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	a := seedUser(t, s, "+2250701020310")
	b := seedUser(t, s, "+2250701020311")

	phone := a.Phone
	_, err := s.Users().UpdateDetails(ctx, b.ID, domain.DetailsPatch{Phone: &phone})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}
