package domain

import "time"

// AccessToken is an issued bearer credential together with the account it was
// issued to.
type AccessToken struct {
	Token     string
	ExpiresIn time.Duration
	User      User
}
