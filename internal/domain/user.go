package domain

import "time"

// User is the identity record for an account. PasswordHash is nil for
// accounts created through Google sign-in that never set a password;
// GoogleID is nil until a Google account is linked.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string
	GoogleID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can log in with email and password.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsGoogleConnected reports whether a Google account is linked.
func (u User) IsGoogleConnected() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}
