package service

import (
	"log/slog"
	"time"

	"github.com/epargne/authd/pkg/jwtx"
)

// TokenService issues and checks bearer tokens whose subject is the
// holder's phone number.
type TokenService struct {
	Signer   *jwtx.Signer
	Verifier *jwtx.Verifier
	Logger   *slog.Logger
	Issuer   string
	TTL      time.Duration
}

// NewTokenService creates a token service. If ttl is 0 or negative,
// defaults to jwtx.DefaultTokenTTL.
func NewTokenService(signer *jwtx.Signer, verifier *jwtx.Verifier, logger *slog.Logger, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}

	return &TokenService{
		Signer:   signer,
		Verifier: verifier,
		Logger:   logger,
		Issuer:   issuer,
		TTL:      ttl,
	}
}

// Issue signs a token for the given phone number.
func (s *TokenService) Issue(phone string) (string, error) {
	claims := jwtx.NewClaims(phone, s.Issuer, s.TTL, time.Now())
	return s.Signer.Sign(claims)
}

// Validate reports whether the token is genuine, unexpired, and bound to
// the given phone. Any verification failure means false.
func (s *TokenService) Validate(token, phone string) bool {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return false
	}
	return claims.Subject == phone
}

// ExtractIdentity returns the phone number a token was issued to. Expired
// tokens surface jwtx.ErrExpired so callers can tell the holder to log in
// again; anything else that fails surfaces as malformed or bad signature.
func (s *TokenService) ExtractIdentity(token string) (string, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
