// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The email is the external identifier: it is what the session token
// carries and what every lookup is keyed on (case-sensitive, matching the
// UNIQUE constraint in the store). The internal xid is only the primary
// key; nothing outside the repository depends on it.
//
// Persona is the free-text health profile ("diabetic, avoids palm oil").
// It is optional, mutable, and overwritten whenever the user supplies a
// new one on a judge or chat request.
type User struct {
	ID           string    `json:"-"       db:"id"`
	Email        string    `json:"email"   db:"email"`
	PasswordHash string    `json:"-"       db:"password_hash"` // bcrypt, never serialized
	Persona      string    `json:"persona" db:"persona"`
	CreatedAt    time.Time `json:"-"       db:"created_at"`
	UpdatedAt    time.Time `json:"-"       db:"updated_at"`
}
