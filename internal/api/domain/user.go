package domain

import "time"

// User is a registered account. Email is the account identifier and is unique
// across all records; PasswordHash is the argon2 encoded verifier, never the
// plaintext. CreatedAt is set once at registration and never updated.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // argon2 encoded
	CreatedAt    time.Time
}
