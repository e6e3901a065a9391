package entity

import "time"

// User is a registered SMS-OTP account.
type User struct {
	ID           int64
	Email        string
	FirstName    string
	PasswordHash string
	PhoneNumber  string
	Verified     bool
	CreatedAt    time.Time
}

// NewUser is the data needed to register or refresh an account.
type NewUser struct {
	ID           int64
	Email        string
	FirstName    string
	PasswordHash string
	PhoneNumber  string
}
