package model

import (
	"time"
)

// Token is a pre-issued, single-use sign-in token. Only a digest of the token
// value is stored.
type Token struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Type      string     `db:"type"`
	Digest    string     `db:"digest"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

const (
	TokenTypeSignIn = "sign_in"
)

func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *Token) IsUsed() bool {
	return t.UsedAt != nil
}

func (t *Token) IsValid() bool {
	return !t.IsExpired() && !t.IsUsed()
}
