package models

import "time"

// DefaultEmoji jest przypisywane nowym kontom bez wybranego emoji.
const DefaultEmoji = "📜"

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        string    `json:"email,omitempty" db:"email"`
	FirstName    string    `json:"first_name,omitempty" db:"first_name"`
	LastName     string    `json:"last_name,omitempty" db:"last_name"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Emoji        string    `json:"emoji" db:"emoji"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
