package service

import (
	"crypto/subtle"
	"log/slog"
	"sync"
	"time"

	"github.com/epargne/authd/pkg/cryptox"
)

const (
	// DefaultOTPTTL is how long an issued code stays valid.
	DefaultOTPTTL = 1 * time.Minute

	otpDigits = 6
)

// OTPService issues and verifies short-lived one-time codes keyed by phone
// number. Codes live in process memory only; a restart invalidates all
// outstanding codes, which is acceptable given their one minute lifetime.
//
// Issuing a new code for a phone replaces any previous one. A successful
// verification consumes the code; a failed verification leaves it in place
// so the holder can retry until it expires.
type OTPService struct {
	Logger *slog.Logger
	TTL    time.Duration

	// Now is the clock used for expiry checks. Tests override it.
	Now func() time.Time

	mu    sync.Mutex
	codes map[string]otpChallenge
}

type otpChallenge struct {
	code      string
	expiresAt time.Time
}

// NewOTPService creates an OTP service. If ttl is 0 or negative, defaults
// to DefaultOTPTTL.
func NewOTPService(logger *slog.Logger, ttl time.Duration) *OTPService {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}

	return &OTPService{
		Logger: logger,
		TTL:    ttl,
		Now:    time.Now,
		codes:  make(map[string]otpChallenge),
	}
}

// Issue generates a fresh 6-digit code for the given phone, replacing any
// outstanding one, and returns it for delivery.
func (s *OTPService) Issue(phone string) (string, error) {
	code, err := cryptox.GenerateNumericCode(otpDigits)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.codes[phone] = otpChallenge{
		code:      code,
		expiresAt: s.Now().Add(s.TTL),
	}
	s.mu.Unlock()

	s.Logger.Debug("otp issued", "phone", phone, "ttl", s.TTL)
	return code, nil
}

// Verify checks the submitted code against the outstanding challenge for
// the phone. Expired or absent challenges fail. A match consumes the
// challenge; a mismatch keeps it so the user can retry.
func (s *OTPService) Verify(phone, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.codes[phone]
	if !ok {
		return false
	}

	if s.Now().After(challenge.expiresAt) {
		delete(s.codes, phone)
		return false
	}

	if subtle.ConstantTimeCompare([]byte(challenge.code), []byte(code)) != 1 {
		return false
	}

	delete(s.codes, phone)
	return true
}
