package model

import "time"

// Account is an authenticated identity. Authentication is the only thing it
// carries; house membership lives on UserProfile.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
