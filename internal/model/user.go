// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// PasswordHash holds the full bcrypt output (algorithm, cost, salt and hash in
// one string). The `json:"-"` tag keeps it out of every API response, even if
// a handler accidentally serialises a whole User.
type User struct {
	ID           int64     `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Identity is the caller recovered from a verified session token.
type Identity struct {
	UserID   int64
	Username string
}
