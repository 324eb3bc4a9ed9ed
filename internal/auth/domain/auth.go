package domain

import "github.com/epargne/authd/pkg/idx"

// Registration is the input for creating a new account.
type Registration struct {
	Name       string
	Surname    string
	NationalID string
	Phone      string
	Password   string
}

// LoginResult is returned to the caller on a successful login.
type LoginResult struct {
	Message string
	Token   string
	UserID  idx.ID
	Name    string
	Phone   string
}

// DetailsPatch is a partial update of a user's profile. Nil fields are
// left untouched.
type DetailsPatch struct {
	Name       *string
	Surname    *string
	Phone      *string
	NationalID *string
}
