package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/epargne/authd/pkg/jwtx"
)

func newTestTokens(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()

	pemKey, err := jwtx.GenerateKeyPEM()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerFromPEM("test-key", pemKey)
	require.NoError(t, err)

	verifier := jwtx.NewVerifier(signer.Public(), "authd-test")
	return NewTokenService(signer, verifier, discardLogger(), "authd-test", ttl)
}

func TestTokenIssueAndValidate(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, time.Hour)

	token, err := tokens.Issue("+2250700000200")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.True(t, tokens.Validate(token, "+2250700000200"))
	require.False(t, tokens.Validate(token, "+2250700000201"))
	require.False(t, tokens.Validate("not-a-token", "+2250700000200"))
}

func TestTokenExtractIdentity(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, time.Hour)

	token, err := tokens.Issue("+2250700000202")
	require.NoError(t, err)

	phone, err := tokens.ExtractIdentity(token)
	require.NoError(t, err)
	require.Equal(t, "+2250700000202", phone)

	_, err = tokens.ExtractIdentity("garbage")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestTokenExpiredIsDistinct(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, time.Hour)

	claims := jwtx.NewClaims("+2250700000203", tokens.Issuer, time.Minute, time.Now().Add(-2*time.Hour))
	token, err := tokens.Signer.Sign(claims)
	require.NoError(t, err)

	require.False(t, tokens.Validate(token, "+2250700000203"))

	_, err = tokens.ExtractIdentity(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}
