package model

import (
	"time"
)

const (
	ProviderAnonymous = "anonymous"
	ProviderGoogle    = "google"
	ProviderGitHub    = "github"
	ProviderToken     = "token"
)

type User struct {
	ID        string    `db:"id"`
	Email     *string   `db:"email"` // Nil for anonymous sessions
	Provider  string    `db:"provider"`
	CreatedAt time.Time `db:"created_at"`
}

func (u *User) IsAnonymous() bool {
	return u.Email == nil || *u.Email == ""
}

// DisplayName is what the header shows for the signed-in user.
func (u *User) DisplayName() string {
	if u.IsAnonymous() {
		return "Guest"
	}
	return *u.Email
}
