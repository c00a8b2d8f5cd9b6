// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Users own every Pet, Activity, and StreakSnapshot row; all queries in
// the repository layer filter on the owning user ID first. The email is
// unique across the system and the password is stored only as a
// pbkdf2-sha256 hash. A user record is immutable after signup.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	CreatedAt    time.Time `json:"created_at"`
}
