package auth

import "time"

// Role names. Admin unlocks configuration, room pricing and user management.
const (
	RoleAdmin     = "admin"
	RoleReception = "reception"
)

// User represents a staff account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
