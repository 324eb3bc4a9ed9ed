package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/internal/auth/store/drivers/sqlite"
	"github.com/epargne/authd/pkg/cryptox"
	"github.com/epargne/authd/pkg/jwtx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(dir + "/pepper.key")

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type capturingSender struct {
	bodies []string
}

func (c *capturingSender) Send(_ context.Context, _ string, body string) error {
	c.bodies = append(c.bodies, body)
	return nil
}

// lastCode pulls the 6-digit code out of the most recent SMS body.
func (c *capturingSender) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.bodies)

	body := c.bodies[len(c.bodies)-1]
	for i := 0; i+6 <= len(body); i++ {
		code := body[i : i+6]
		digits := true
		for _, r := range code {
			if r < '0' || r > '9' {
				digits = false
				break
			}
		}
		if digits {
			return code
		}
	}
	t.Fatalf("no 6-digit code in sms body %q", body)
	return ""
}

// failingSender records the body like capturingSender but reports every
// delivery as failed.
type failingSender struct {
	capturingSender
}

func (f *failingSender) Send(ctx context.Context, to, body string) error {
	_ = f.capturingSender.Send(ctx, to, body)
	return errors.New("gateway down")
}

func newTestAuth(t *testing.T, st *sqlite.Store) (*AuthService, *capturingSender) {
	t.Helper()

	pemKey, err := jwtx.GenerateKeyPEM()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerFromPEM("test-key", pemKey)
	require.NoError(t, err)
	verifier := jwtx.NewVerifier(signer.Public(), "authd-test")

	sms := &capturingSender{}
	logger := discardLogger()
	return &AuthService{
		Store:   st,
		Tokens:  NewTokenService(signer, verifier, logger, "authd-test", time.Hour),
		Lockout: NewLockoutService(st, logger, 3, time.Minute, time.Minute),
		OTP:     NewOTPService(logger, time.Minute),
		SMS:     sms,
		Logger:  logger,
	}, sms
}

func registerAndVerify(t *testing.T, auth *AuthService, sms *capturingSender, phone, password string) domain.User {
	t.Helper()
	ctx := context.Background()

	user, err := auth.Register(ctx, domain.Registration{
		Name:       "Koffi",
		Surname:    "Kouame",
		NationalID: "CI-" + phone,
		Phone:      phone,
		Password:   password,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusBlocked, user.Status)

	require.NoError(t, auth.VerifyOTP(ctx, phone, sms.lastCode(t)))
	return user
}

func TestRegisterAndVerifyFlow(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000300"

	registerAndVerify(t, auth, sms, phone, "s3cret-pass")

	u, err := st.Users().GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, u.Status)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000301"

	registerAndVerify(t, auth, sms, phone, "s3cret-pass")

	_, err := auth.Register(ctx, domain.Registration{
		Name:       "Autre",
		Surname:    "Personne",
		NationalID: "CI-other",
		Phone:      phone,
		Password:   "whatever",
	})
	require.ErrorIs(t, err, ErrPhoneTaken)
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000302"

	user := registerAndVerify(t, auth, sms, phone, "s3cret-pass")

	res, err := auth.Login(ctx, phone, "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, user.ID, res.UserID)
	require.Equal(t, phone, res.Phone)

	require.True(t, auth.Tokens.Validate(res.Token, phone))
}

func TestLoginUnknownPhone(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, _ := newTestAuth(t, st)

	_, err := auth.Login(context.Background(), "+2250700000303", "whatever")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginUnverifiedAccountIsBlocked(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, _ := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000304"

	_, err := auth.Register(ctx, domain.Registration{
		Name:       "Koffi",
		Surname:    "Kouame",
		NationalID: "CI-" + phone,
		Phone:      phone,
		Password:   "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = auth.Login(ctx, phone, "s3cret-pass")
	require.ErrorIs(t, err, ErrAccountBlocked)
}

func TestLoginLockoutAfterThreeFailures(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000305"

	registerAndVerify(t, auth, sms, phone, "s3cret-pass")

	_, err := auth.Login(ctx, phone, "wrong-1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, phone, "wrong-2")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Third failure trips the block and says so.
	_, err = auth.Login(ctx, phone, "wrong-3")
	require.ErrorIs(t, err, ErrAccountNowBlocked)

	// Even the right password is refused while blocked.
	_, err = auth.Login(ctx, phone, "s3cret-pass")
	require.ErrorIs(t, err, ErrAccountBlocked)

	u, derr := st.Users().GetUserByPhone(ctx, phone)
	require.NoError(t, derr)
	require.Equal(t, domain.StatusBlocked, u.Status)
}

func TestLoginBlockExpires(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000306"

	registerAndVerify(t, auth, sms, phone, "s3cret-pass")

	now := time.Now()
	auth.Lockout.Now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, _ = auth.Login(ctx, phone, "wrong")
	}
	_, err := auth.Login(ctx, phone, "s3cret-pass")
	require.ErrorIs(t, err, ErrAccountBlocked)

	now = now.Add(61 * time.Second)

	res, err := auth.Login(ctx, phone, "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
}

func TestLoginSuccessResetsFailureCount(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000307"

	registerAndVerify(t, auth, sms, phone, "s3cret-pass")

	// Two failures, a success, then two more failures never block.
	_, err := auth.Login(ctx, phone, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, phone, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, phone, "s3cret-pass")
	require.NoError(t, err)

	_, err = auth.Login(ctx, phone, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, phone, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000308"

	_, err := auth.Register(ctx, domain.Registration{
		Name:       "Koffi",
		Surname:    "Kouame",
		NationalID: "CI-" + phone,
		Phone:      phone,
		Password:   "s3cret-pass",
	})
	require.NoError(t, err)

	err = auth.VerifyOTP(ctx, phone, "000000")
	if sms.lastCode(t) == "000000" {
		t.Skip("generated code collided with the guess")
	}
	require.ErrorIs(t, err, ErrOTPInvalid)

	// The real code still works after a wrong guess.
	require.NoError(t, auth.VerifyOTP(ctx, phone, sms.lastCode(t)))
}

func TestVerifyOTPUnknownPhone(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, _ := newTestAuth(t, st)

	err := auth.VerifyOTP(context.Background(), "+2250700000309", "123456")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendOTPDeliveryFailureStillIssues(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000320"

	registerAndVerify(t, auth, sms, phone, "s3cret-pass")

	// Swap in a sender whose deliveries always fail. The challenge must
	// still be issued and the call must not surface the delivery error.
	failing := &failingSender{}
	auth.SMS = failing
	require.NoError(t, auth.SendOTP(ctx, phone))

	// The stored challenge is live despite the failed delivery.
	require.True(t, auth.OTP.Verify(phone, failing.lastCode(t)))
}

func TestResetPasswordFlow(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000310"

	registerAndVerify(t, auth, sms, phone, "old-pass")

	require.NoError(t, auth.RequestPasswordResetOTP(ctx, phone))
	require.NoError(t, auth.ResetPassword(ctx, phone, "new-pass"))

	_, err := auth.Login(ctx, phone, "old-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := auth.Login(ctx, phone, "new-pass")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
}

func TestResetPasswordUnknownPhone(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, _ := newTestAuth(t, st)

	require.ErrorIs(t, auth.RequestPasswordResetOTP(context.Background(), "+2250700000311"), ErrUserNotFound)
	require.ErrorIs(t, auth.ResetPassword(context.Background(), "+2250700000311", "x"), ErrUserNotFound)
}

func TestCheckPhone(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	auth, sms := newTestAuth(t, st)
	ctx := context.Background()
	phone := "+2250700000312"

	ok, err := auth.CheckPhone(ctx, phone)
	require.NoError(t, err)
	require.False(t, ok)

	registerAndVerify(t, auth, sms, phone, "s3cret-pass")

	ok, err = auth.CheckPhone(ctx, "+225 07 00 00 03 12")
	require.NoError(t, err)
	require.True(t, ok)
}
