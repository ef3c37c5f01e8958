package models

import "time"

// RoleAdmin is the capability required to mutate content. Roles are granted
// through the user_roles table, never stored on the user row itself.
const RoleAdmin = "admin"

// User is an admin-console account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the resolved identity of the current session, as carried in
// the request context by the auth middleware.
type Identity struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}
