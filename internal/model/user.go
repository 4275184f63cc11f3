// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The store assigns UserID (an auto-increment surrogate key) exactly once, at
// insert. UID is the user-chosen identifier typed into the login form — it is
// what people think of as their "username" and it never changes after signup.
// Both UID and Email carry UNIQUE constraints in the database.
//
// WHY PasswordHash `json:"-"`?
// The bcrypt hash must never appear in an API response, under any code path.
// Tagging the field with "-" means encoding/json skips it entirely, so even a
// handler that accidentally serialises a full User cannot leak it. Responses
// that need user data should still go through Profile().
//
// WHY PhoneNumber *string?
// Phone number is the one optional signup field. A nil pointer maps to SQL
// NULL, which keeps "not provided" distinct from "provided but empty".
type User struct {
	UserID       int64     `json:"user_id"`
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the sanitized view of a User returned by the login endpoint.
// It carries only the fields the dashboard needs; in particular it has no
// password hash field at all, so there is nothing to forget to strip.
type Profile struct {
	UserID int64  `json:"user_id"`
	UID    string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Profile returns the sanitized view of the user.
func (u *User) Profile() Profile {
	return Profile{
		UserID: u.UserID,
		UID:    u.UID,
		Email:  u.Email,
		Role:   u.Role,
	}
}
