package model

import "time"

// Pet is an animal registered by a user. Species, weight, and birthdate
// are optional; pets are never deleted in the current scope.
type Pet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Species   *string   `json:"species"`
	Weight    *float64  `json:"weight"`
	Birthdate *Date     `json:"birthdate"`
	CreatedAt time.Time `json:"created_at"`
}
