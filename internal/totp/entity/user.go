package entity

import "time"

// User is an account that authenticates with a password plus an
// authenticator-app code.
type User struct {
	ID           int64
	Email        string
	FirstName    string
	PasswordHash string
	// Secret is the base32 TOTP secret shared with the authenticator app.
	Secret    string
	CreatedAt time.Time
}

// NewUser carries the fields needed to create an account.
type NewUser struct {
	ID           int64
	Email        string
	FirstName    string
	PasswordHash string
	Secret       string
}
