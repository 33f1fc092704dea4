package models

import "time"

// Admin is an account allowed to use the admin API
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         RoleType  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the account carries the admin role
func (a *Admin) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
