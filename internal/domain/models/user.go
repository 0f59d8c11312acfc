package models

import "time"

// User is a suite login account.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedDate  time.Time  `json:"created_date"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
