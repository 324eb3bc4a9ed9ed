package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/pkg/idx"
)

func TestUserLookups(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	users := &UserService{Store: st, Logger: discardLogger()}
	ctx := context.Background()
	phone := "+2250700000400"

	created := registerAndVerify(t, auth, sms, phone, "s3cret-pass")

	t.Run("by phone", func(t *testing.T) {
		u, err := users.GetUserByPhone(ctx, phone)
		require.NoError(t, err)
		require.Equal(t, created.ID, u.ID)
	})

	t.Run("by id", func(t *testing.T) {
		u, err := users.GetUserByID(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, phone, u.Phone)
	})

	t.Run("id only", func(t *testing.T) {
		id, err := users.GetUserID(ctx, phone)
		require.NoError(t, err)
		require.Equal(t, created.ID, id)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := users.GetUserByPhone(ctx, "+2250700000499")
		require.ErrorIs(t, err, ErrUserNotFound)

		_, err = users.GetUserByID(ctx, idx.New())
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	users := &UserService{Store: st, Logger: discardLogger()}
	ctx := context.Background()
	phone := "+2250700000401"

	registerAndVerify(t, auth, sms, phone, "old-pass")

	require.NoError(t, users.UpdatePassword(ctx, phone, "new-pass"))

	_, err := auth.Login(ctx, phone, "old-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := auth.Login(ctx, phone, "new-pass")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
}

func TestUpdatePasswordUnverified(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, _ := newTestAuth(t, st)
	users := &UserService{Store: st, Logger: discardLogger()}
	ctx := context.Background()
	phone := "+2250700000402"

	_, err := auth.Register(ctx, domain.Registration{
		Name:       "Koffi",
		Surname:    "Kouame",
		NationalID: "CI-" + phone,
		Phone:      phone,
		Password:   "s3cret-pass",
	})
	require.NoError(t, err)

	err = users.UpdatePassword(ctx, phone, "new-pass")
	require.ErrorIs(t, err, ErrNotVerified)
}

func TestUpdateDetails(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	users := &UserService{Store: st, Logger: discardLogger()}
	ctx := context.Background()

	a := registerAndVerify(t, auth, sms, "+2250700000403", "s3cret-pass")
	b := registerAndVerify(t, auth, sms, "+2250700000404", "s3cret-pass")

	name := "Fatou"
	updated, err := users.UpdateDetails(ctx, a.ID, domain.DetailsPatch{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Fatou", updated.Name)
	require.Equal(t, a.Surname, updated.Surname)

	t.Run("phone conflict", func(t *testing.T) {
		phone := b.Phone
		_, err := users.UpdateDetails(ctx, a.ID, domain.DetailsPatch{Phone: &phone})
		require.ErrorIs(t, err, ErrPhoneTaken)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := users.UpdateDetails(ctx, idx.New(), domain.DetailsPatch{Name: &name})
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
