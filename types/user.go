package types

import "time"

// User represents an account in the system.
// It contains identity, profile, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique handle chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's email address. It is unique and serves
	// as the login identifier. Stored trimmed and lowercased.
	Email string `json:"email" db:"email"`

	// Name is the user's display name. It may be empty.
	Name string `json:"name" db:"name"`

	// FirstName is the user's first name, collected at registration.
	// It may be empty.
	FirstName string `json:"first_name" db:"first_name"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
