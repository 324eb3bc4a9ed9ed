package domain

import (
	"strings"
	"time"

	"github.com/epargne/authd/pkg/idx"
)

// Status drives both login eligibility and password-change
// eligibility. A user is created BLOCKED and becomes ACTIVE on OTP
// verification; the lockout tracker also flips accounts to BLOCKED
// after repeated failed logins. The overload of BLOCKED meaning both
// "locked out" and "not yet verified" is inherited behavior.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusBlocked Status = "BLOCKED"
)

type User struct {
	ID           idx.ID
	Name         string
	Surname      string
	NationalID   string
	PasswordHash string // argon2id PHC encoded
	Phone        string // normalized, unique
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizePhone canonicalizes a phone number for use as a lookup key.
// All map and store lookups keyed by phone must go through this first,
// otherwise "+225 07 00..." and "+2250700..." count lockout attempts
// against different identities.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// separator, drop
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
