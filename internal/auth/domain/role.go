package domain

import "time"

// Built-in role names. Roles are seeded at bootstrap; the admin role gates
// the administrative second-factor reset.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
