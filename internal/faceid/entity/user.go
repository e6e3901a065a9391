package entity

import "time"

// User is the public shape of a face-id account.
type User struct {
	ID        int64
	Email     string
	FirstName string
	CreatedAt time.Time
}

// Credential is the stored account record including secrets.
type Credential struct {
	ID           int64
	Email        string
	FirstName    string
	PasswordHash string
	Template     string
	CreatedAt    time.Time
}

// NewUser is the data needed to enroll an account.
type NewUser struct {
	ID           int64
	Email        string
	FirstName    string
	PasswordHash string
	Template     string
}
